//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"fmt"
	"image"
)

type unsupportedBackend struct{}

func newBackend() backend { return unsupportedBackend{} }

func (unsupportedBackend) Portal(context.Context, Options) (*image.RGBA, error) {
	return nil, fmt.Errorf("portal screenshot is not supported on this platform")
}

func (unsupportedBackend) RootWindow(context.Context) (*image.RGBA, error) {
	return nil, fmt.Errorf("root window capture is not supported on this platform")
}

func (unsupportedBackend) ListMonitors() ([]MonitorInfo, error) {
	return nil, fmt.Errorf("monitor listing is not supported on this platform")
}
