package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

type fakeBackend struct {
	portal      *image.RGBA
	portalErr   error
	root        *image.RGBA
	rootErr     error
	monitors    []MonitorInfo
	monitorsErr error
	rootCalls   *int
}

func (f fakeBackend) Portal(context.Context, Options) (*image.RGBA, error) {
	return f.portal, f.portalErr
}

func (f fakeBackend) RootWindow(context.Context) (*image.RGBA, error) {
	if f.rootCalls != nil {
		*f.rootCalls++
	}
	return f.root, f.rootErr
}

func (f fakeBackend) ListMonitors() ([]MonitorInfo, error) {
	return f.monitors, f.monitorsErr
}

func useBackend(t *testing.T, b backend) {
	t.Helper()
	prev := active
	active = b
	t.Cleanup(func() { active = prev })
}

func desktop(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func TestScreenshotPrefersPortal(t *testing.T) {
	calls := 0
	useBackend(t, fakeBackend{portal: desktop(4, 4), root: desktop(2, 2), rootCalls: &calls})
	img, src, err := Screenshot(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if src != SourcePortal || img.Bounds().Dx() != 4 || calls != 0 {
		t.Fatalf("src=%s bounds=%v rootCalls=%d", src, img.Bounds(), calls)
	}
}

func TestScreenshotFallsBackToX11(t *testing.T) {
	useBackend(t, fakeBackend{portalErr: errors.New("no portal"), root: desktop(3, 3)})
	img, src, err := Screenshot(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if src != SourceX11 || img.Bounds().Dx() != 3 {
		t.Fatalf("src=%s bounds=%v", src, img.Bounds())
	}
}

func TestScreenshotReportsBothFailures(t *testing.T) {
	rootErr := errors.New("no X server")
	useBackend(t, fakeBackend{portalErr: errors.New("no portal"), rootErr: rootErr})
	_, _, err := Screenshot(context.Background(), Options{})
	if !errors.Is(err, rootErr) || !strings.Contains(err.Error(), "no portal") {
		t.Fatalf("err = %v", err)
	}
}

func TestInteractiveDoesNotFallBack(t *testing.T) {
	calls := 0
	useBackend(t, fakeBackend{portalErr: errors.New("cancelled"), root: desktop(2, 2), rootCalls: &calls})
	if _, _, err := Screenshot(context.Background(), Options{Interactive: true}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 0 {
		t.Fatal("interactive capture must not fall back to the root window")
	}
}

func TestScreenshotCropsToMonitor(t *testing.T) {
	useBackend(t, fakeBackend{
		portal: desktop(20, 10),
		monitors: []MonitorInfo{
			{Index: 0, Name: "HDMI-1", Rect: image.Rect(0, 0, 10, 10)},
			{Index: 1, Name: "DP-2", Rect: image.Rect(10, 0, 20, 10), Primary: true},
		},
	})
	img, _, err := Screenshot(context.Background(), Options{Monitor: "primary"})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got.R != 10 {
		t.Fatalf("crop origin pixel = %v", got)
	}
	if _, _, err := Screenshot(context.Background(), Options{Monitor: "VGA"}); err == nil {
		t.Fatal("expected error for unknown monitor")
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []MonitorInfo{{Index: 0, Name: "eDP-1"}, {Index: 1, Name: "HDMI-1"}}
	for sel, want := range map[string]int{"": 0, "primary": 0, "#1": 1, "1": 1, "hdmi": 1} {
		got, err := FindMonitor(monitors, sel)
		if err != nil || got.Index != want {
			t.Fatalf("FindMonitor(%q) = %+v, %v", sel, got, err)
		}
	}
	if _, err := FindMonitor(monitors, "5"); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Fatalf("err = %v", err)
	}
}
