// Package capture grabs the desktop so it can be used as a drawing
// background.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

// Options controls a screenshot.
type Options struct {
	// Monitor crops the result to one monitor: an index, "primary" or part
	// of the output name. Empty keeps the whole desktop.
	Monitor string
	// Interactive lets the portal ask the user to pick a region.
	Interactive bool
	// IncludeCursor asks the portal to embed the pointer.
	IncludeCursor bool
}

// Source names the backend that produced an image.
type Source string

const (
	SourcePortal Source = "portal"
	SourceX11    Source = "x11"
)

type backend interface {
	Portal(ctx context.Context, opts Options) (*image.RGBA, error)
	RootWindow(ctx context.Context) (*image.RGBA, error)
	ListMonitors() ([]MonitorInfo, error)
}

var active backend = newBackend()

var errNoMonitors = errors.New("no monitors available")

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	return active.ListMonitors()
}

// Screenshot captures the desktop through the screenshot portal, falling back
// to grabbing the X11 root window when the portal is unavailable.
func Screenshot(ctx context.Context, opts Options) (*image.RGBA, Source, error) {
	src := SourcePortal
	img, portalErr := active.Portal(ctx, opts)
	if portalErr != nil {
		if ctx.Err() != nil || opts.Interactive {
			return nil, "", fmt.Errorf("screenshot: %w", portalErr)
		}
		var err error
		img, err = active.RootWindow(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("screenshot: portal: %v; x11 fallback: %w", portalErr, err)
		}
		src = SourceX11
	}
	if opts.Monitor == "" {
		return img, src, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return nil, "", err
	}
	mon, err := FindMonitor(monitors, opts.Monitor)
	if err != nil {
		return nil, "", err
	}
	cropped, err := cropToRect(img, mon.Rect)
	if err != nil {
		return nil, "", err
	}
	return cropped, src, nil
}

// FindMonitor resolves a monitor selector against the provided list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	if selector == "" {
		return monitors[0], nil
	}
	sel := strings.TrimSpace(selector)
	lower := strings.ToLower(sel)
	if lower == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	lower = strings.TrimPrefix(lower, "#")
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
