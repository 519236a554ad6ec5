package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/sketchpad/internal/appstate"
	"github.com/example/sketchpad/internal/capture"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/palette"
	"github.com/example/sketchpad/internal/surface"
)

// paintCmd opens the drawing window.
type paintCmd struct {
	*root
	fs *flag.FlagSet

	bg          backgroundSource
	width       int
	height      int
	color       string
	strokeWidth float64
	mode        string
	output      string
	format      string
	view        bool

	extra []surface.Option
}

func (p *paintCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePaintCmd(args []string, r *root) (*paintCmd, error) {
	fs := flag.NewFlagSet("paint", flag.ContinueOnError)
	p := &paintCmd{root: r, fs: fs}
	if r != nil {
		fs.SetOutput(r.stderr)
		fs.Usage = usageFunc(p)
	}
	p.bg.register(fs)
	fs.IntVar(&p.width, "width", 0, "canvas width in pixels (default: background width or 800)")
	fs.IntVar(&p.height, "height", 0, "canvas height in pixels (default: background height or 600)")
	fs.StringVar(&p.color, "color", "", "initial stroke color, a palette name or any CSS color")
	fs.Float64Var(&p.strokeWidth, "stroke", 0, "initial stroke width in pixels")
	fs.StringVar(&p.mode, "mode", "", "initial tool: pencil, circle, rectangle or eraser")
	fs.StringVar(&p.output, "output", "", "file written by save (default: a new file per save)")
	fs.StringVar(&p.format, "format", "", "format for generated file names: png, jpeg, bmp or tiff")
	fs.BoolVar(&p.view, "view", false, "start with drawing disabled")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: p}
	}
	if err := p.bg.validate(); err != nil {
		return nil, err
	}
	extra, err := styleOptions(p.color, p.strokeWidth, p.mode)
	if err != nil {
		return nil, err
	}
	p.extra = extra
	return p, nil
}

// styleOptions turns the -color, -stroke and -mode flags into surface
// options applied after the configured defaults.
func styleOptions(color string, width float64, mode string) ([]surface.Option, error) {
	var opts []surface.Option
	if color != "" {
		c, err := palette.Parse(color)
		if err != nil {
			return nil, fmt.Errorf("invalid -color: %w", err)
		}
		opts = append(opts, func(s *surface.Surface) { s.SetColor(c) })
	}
	if width != 0 && !surface.ValidWidth(width) {
		return nil, fmt.Errorf("invalid -stroke %g: must be in (0, %d]", width, surface.MaxWidth)
	}
	if width > 0 {
		opts = append(opts, func(s *surface.Surface) { s.SetWidth(width) })
	}
	if mode != "" {
		m, err := surface.ParseMode(mode)
		if err != nil {
			return nil, fmt.Errorf("invalid -mode: %w", err)
		}
		opts = append(opts, surface.WithMode(m))
	}
	return opts, nil
}

func (p *paintCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bg, err := p.bg.load(ctx, p.notifier)
	if err != nil {
		return err
	}
	w, h := canvasSize(p.width, p.height, bg, 800, 600)
	s := surface.New(p.surfaceOptions(append([]surface.Option{surface.WithSize(w, h)}, p.extra...)...)...)
	if bg != nil {
		s.SetBackgroundImage(bg)
	}
	s.SetDrawingEnabled(!p.view)

	opts, err := p.saverOptions(p.format)
	if err != nil {
		return err
	}
	saver := export.New(ctx, opts...)
	defer saver.Close()

	st := appstate.New(
		appstate.WithSurface(s),
		appstate.WithTheme(p.activeTheme),
		appstate.WithOutput(p.output),
		appstate.WithSaver(saver),
		appstate.WithNotifier(p.notifier),
		appstate.WithCaptureOptions(capture.Options{Monitor: p.bg.monitor}),
	)
	st.Run()
	return nil
}
