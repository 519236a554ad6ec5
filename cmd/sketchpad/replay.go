package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/surface"
)

// replayCmd runs a drawing script on an off-screen surface.
type replayCmd struct {
	*root
	fs *flag.FlagSet

	bg     backgroundSource
	width  int
	height int
	output string
	format string
	script string
	in     io.Reader
}

func (c *replayCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	c := &replayCmd{root: r, fs: fs, in: os.Stdin}
	if r != nil {
		fs.SetOutput(r.stderr)
		fs.Usage = usageFunc(c)
	}
	c.bg.register(fs)
	fs.IntVar(&c.width, "width", 0, "canvas width in pixels (default: background width or 640)")
	fs.IntVar(&c.height, "height", 0, "canvas height in pixels (default: background height or 480)")
	fs.StringVar(&c.output, "output", "", "write the final canvas to this file")
	fs.StringVar(&c.format, "format", "", "format used when -output has no extension: png, jpeg, bmp or tiff")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		c.script = fs.Arg(0)
	default:
		return nil, &UsageError{of: c}
	}
	if err := c.bg.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *replayCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in, name := c.in, "stdin"
	if c.script != "" && c.script != "-" {
		f, err := os.Open(c.script)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in, name = f, c.script
	}

	bg, err := c.bg.load(ctx, c.notifier)
	if err != nil {
		return err
	}
	w, h := canvasSize(c.width, c.height, bg, 640, 480)
	s := surface.New(c.surfaceOptions(surface.WithSize(w, h))...)
	if bg != nil {
		s.SetBackgroundImage(bg)
	}

	opts, err := c.saverOptions(c.format)
	if err != nil {
		return err
	}
	saver := export.New(ctx, opts...)
	defer saver.Close()

	if err := c.newRunner(s, saver, c.stdout).Run(in); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if c.output == "" {
		return nil
	}
	path, err := saver.WriteFile(c.output, s.Snapshot())
	if err != nil {
		c.notifier.SaveFailed(err)
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	c.notifier.Save(path)
	fmt.Fprintf(c.stdout, "wrote %s\n", path)
	return nil
}
