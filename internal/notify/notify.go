package notify

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sketchpad/internal/imageio"
	"github.com/example/sketchpad/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCapture emits a notification when a screenshot becomes the background.
	EventCapture Event = "capture"
	// EventSave emits a notification when a drawing is persisted to disk.
	EventSave Event = "save"
	// EventSaveFailed emits a notification when a background save fails.
	EventSaveFailed Event = "save-failed"
	// EventCopy emits a notification when the drawing is copied to the clipboard.
	EventCopy Event = "copy"
)

// Events lists every event in display order.
func Events() []Event { return []Event{EventCapture, EventSave, EventSaveFailed, EventCopy} }

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.DefaultAppName,
		Events: map[Event]EventPreference{
			EventCapture:    {Template: "Background captured from %s"},
			EventSave:       {Template: "Saved %s"},
			EventSaveFailed: {Template: "Save failed: %s"},
			EventCopy:       {Template: "Copied %s to clipboard"},
		},
	}
}

var getenv = os.Getenv

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(getenv("SKETCHPAD_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("SKETCHPAD_NOTIFY_CAPTURE_TEXT", EventCapture)
	apply("SKETCHPAD_NOTIFY_SAVE_TEXT", EventSave)
	apply("SKETCHPAD_NOTIFY_SAVE_FAILED_TEXT", EventSaveFailed)
	apply("SKETCHPAD_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

var send = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event notifications are on.
func (n *Notifier) Enabled(event Event) bool { return n.enabledFor(event) }

// Capture announces a screenshot background with an optional preview.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.enabledFor(EventCapture) {
		return
	}
	opts := platform.Options{Urgency: platform.UrgencyLow}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{Urgency: platform.UrgencyNormal}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// SaveFailed reports a failed save.
func (n *Notifier) SaveFailed(err error) {
	if err == nil || !n.enabledFor(EventSaveFailed) {
		return
	}
	n.dispatch(EventSaveFailed, err.Error(), platform.Options{Urgency: platform.UrgencyCritical})
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "drawing"
	}
	n.dispatch(EventCopy, detail, platform.Options{Urgency: platform.UrgencyLow})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	if n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	opts.AppName = n.prefs.Title
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if n == nil {
		return ""
	}
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "sketchpad-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := imageio.Encode(f, img, imageio.PNG, 0); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
