package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/sketchpad/internal/imageio"
)

func transparentSquare() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	return img
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("save did not complete")
	}
	return Result{}
}

func TestSaveReportsPathOnce(t *testing.T) {
	dir := t.TempDir()
	s := New(context.Background(), WithDir(dir), WithFormat(imageio.PNG))
	defer s.Close()

	results := make(chan Result, 2)
	if err := s.Save(transparentSquare(), "", func(r Result) { results <- r }); err != nil {
		t.Fatalf("Save: %v", err)
	}
	r := waitResult(t, results)
	if r.Err != nil {
		t.Fatalf("result error: %v", r.Err)
	}
	if filepath.Dir(r.Path) != dir || !strings.HasPrefix(filepath.Base(r.Path), "sketch-") || filepath.Ext(r.Path) != ".png" {
		t.Fatalf("path = %s", r.Path)
	}
	img, err := imageio.Load(r.Path)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := img.At(20, 20).RGBA(); a != 0 {
		t.Fatal("png should keep transparent pixels")
	}
	select {
	case extra := <-results:
		t.Fatalf("second callback: %+v", extra)
	default:
	}
}

func TestJPEGIsFlattenedOntoBackground(t *testing.T) {
	dir := t.TempDir()
	s := New(context.Background(), WithBackground(color.RGBA{0, 0, 255, 255}))
	defer s.Close()
	path, err := s.WriteFile(filepath.Join(dir, "out"), transparentSquare())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Fatalf("path = %s", path)
	}
	img, err := imageio.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := img.At(24, 24).RGBA()
	if a != 0xffff || b>>8 < 200 || r>>8 > 60 || g>>8 > 60 {
		t.Fatalf("pixel = %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestSaveErrorsAreReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(context.Background())
	defer s.Close()
	results := make(chan Result, 1)
	target := filepath.Join(blocker, "pic.png")
	if err := s.Save(transparentSquare(), target, func(r Result) { results <- r }); err != nil {
		t.Fatal(err)
	}
	r := waitResult(t, results)
	if r.Err == nil || r.Path != target {
		t.Fatalf("result = %+v", r)
	}
	if err := s.Save(nil, "", nil); err == nil {
		t.Fatal("nil image should be rejected")
	}
}

func TestClosedSaverRejectsWork(t *testing.T) {
	s := New(context.Background())
	s.Close()
	s.Close()
	if err := s.Save(transparentSquare(), "x.png", nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v", err)
	}
}

func TestCancelledContextStopsWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx)
	cancel()
	s.Close()
	if err := s.Save(transparentSquare(), "x.png", nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v", err)
	}
}

func TestNextPathUsesClock(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
	s := New(context.Background(), WithDir("/tmp/pics"), WithFormat(imageio.TIFF))
	defer s.Close()
	p := s.NextPath()
	if !strings.HasPrefix(p, filepath.Join("/tmp/pics", "sketch-20240309-140506-")) || !strings.HasSuffix(p, ".tiff") {
		t.Fatalf("NextPath = %s", p)
	}
}
