package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/example/sketchpad/internal/capture"
	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/imageio"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/script"
	"github.com/example/sketchpad/internal/surface"
)

var (
	captureScreenshotFn = capture.Screenshot
	readClipboardFn     = clipboard.ReadImage
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// backgroundSource selects the image placed under the drawing.
type backgroundSource struct {
	file          string
	fromClipboard bool
	capture       bool
	monitor       string
}

func (b *backgroundSource) register(fs *flag.FlagSet) {
	fs.StringVar(&b.file, "background", "", "image file to draw on")
	fs.BoolVar(&b.fromClipboard, "from-clipboard", false, "draw on the image in the clipboard")
	fs.BoolVar(&b.capture, "capture", false, "draw on a screenshot of the desktop")
	fs.StringVar(&b.monitor, "monitor", "", "monitor to capture with -capture (index, name or primary)")
}

func (b *backgroundSource) validate() error {
	n := 0
	for _, set := range []bool{b.file != "", b.fromClipboard, b.capture} {
		if set {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("only one of -background, -from-clipboard and -capture may be given")
	}
	if b.monitor != "" && !b.capture {
		return fmt.Errorf("-monitor requires -capture")
	}
	return nil
}

// load resolves the chosen background, or nil when none was chosen.
func (b *backgroundSource) load(ctx context.Context, n *notify.Notifier) (image.Image, error) {
	switch {
	case b.file != "":
		img, err := imageio.Load(b.file)
		if err != nil {
			return nil, fmt.Errorf("failed to load background %s: %w", b.file, err)
		}
		return img, nil
	case b.fromClipboard:
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard image: %w", err)
		}
		return img, nil
	case b.capture:
		img, src, err := captureScreenshotFn(ctx, capture.Options{Monitor: b.monitor})
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen: %w", err)
		}
		n.Capture(string(src), img)
		return img, nil
	}
	return nil, nil
}

// canvasSize picks the explicit size, then the background size, then def.
func canvasSize(w, h int, bg image.Image, defW, defH int) (int, int) {
	if bg != nil {
		b := bg.Bounds()
		if w <= 0 {
			w = b.Dx()
		}
		if h <= 0 {
			h = b.Dy()
		}
	}
	if w <= 0 {
		w = defW
	}
	if h <= 0 {
		h = defH
	}
	return w, h
}

// saverOptions configures export from the loaded config. format overrides
// the configured format when set.
func (r *root) saverOptions(format string) ([]export.Option, error) {
	cfg := r.config
	f := cfg.Format
	if format != "" {
		var err error
		if f, err = imageio.ParseFormat(format); err != nil {
			return nil, err
		}
	}
	dir := cfg.SaveDir
	if dir == "" {
		dir = export.DefaultDir()
	}
	return []export.Option{
		export.WithDir(dir),
		export.WithFormat(f),
		export.WithQuality(cfg.Quality),
		export.WithBackground(cfg.Canvas.Background),
		export.WithNotifier(r.notifier),
	}, nil
}

// newRunner wires a script runner to image loading and synchronous saves.
func (r *root) newRunner(s *surface.Surface, saver *export.Saver, out io.Writer) *script.Runner {
	run := script.New(s, out)
	run.Open = imageio.Load
	run.Save = func(path string, img image.Image) error {
		written, err := saver.WriteFile(path, img)
		if err != nil {
			r.notifier.SaveFailed(err)
			return err
		}
		r.notifier.Save(written)
		return nil
	}
	return run
}
