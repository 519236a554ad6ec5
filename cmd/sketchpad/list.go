package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/example/sketchpad/internal/palette"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ContinueOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	def := palette.Ensure(c.config.Canvas.Color, "")
	fmt.Fprintln(c.stdout, "available palette colors (* marks the default color):")
	for idx, entry := range palette.Colors() {
		marker := " "
		if idx == def {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %-10s %s\n", marker, strings.ToLower(entry.Name), palette.Hex(entry.Color))
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type widthsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	fs := flag.NewFlagSet("widths", flag.ContinueOnError)
	cmd := &widthsCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *widthsCmd) Run() error {
	fmt.Fprintln(c.stdout, "available stroke widths (* marks the default width):")
	def := palette.EnsureWidth(c.config.Canvas.Width)
	for idx, width := range palette.Widths() {
		marker := " "
		if idx == def {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %4gpx\n", marker, width)
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
