package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/script"
	"github.com/example/sketchpad/internal/surface"
)

// interactiveCmd reads script commands from a prompt.
type interactiveCmd struct {
	*root
	fs *flag.FlagSet

	execs  commandList
	width  int
	height int
	in     io.Reader
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	i := &interactiveCmd{root: r, fs: fs, in: os.Stdin}
	if r != nil {
		fs.SetOutput(r.stderr)
		fs.Usage = usageFunc(i)
	}
	fs.Var(&i.execs, "e", "execute a command without a prompt (may be specified multiple times)")
	fs.IntVar(&i.width, "width", 640, "canvas width in pixels")
	fs.IntVar(&i.height, "height", 480, "canvas height in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := surface.New(i.surfaceOptions(surface.WithSize(i.width, i.height))...)
	opts, err := i.saverOptions("")
	if err != nil {
		return err
	}
	saver := export.New(ctx, opts...)
	defer saver.Close()
	run := i.newRunner(s, saver, i.stdout)

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			if err := run.Exec(line); err != nil {
				if errors.Is(err, script.ErrExit) {
					return nil
				}
				return fmt.Errorf("%s: %w", line, err)
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.in)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		if err := run.Exec(scanner.Text()); err != nil {
			if errors.Is(err, script.ErrExit) {
				return nil
			}
			fmt.Fprintln(i.stderr, err)
		}
	}
	return scanner.Err()
}
