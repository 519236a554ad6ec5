package platform

// Urgency mirrors the freedesktop notification urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// DefaultAppName identifies sketchpad to the notification center.
const DefaultAppName = "Sketchpad"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName defaults to DefaultAppName.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	Urgency  Urgency
	// TimeoutMillis of zero lets the platform decide.
	TimeoutMillis int32
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
