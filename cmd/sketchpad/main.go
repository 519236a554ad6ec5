package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/example/sketchpad/internal/config"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/surface"
	"github.com/example/sketchpad/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	config   *config.Config
	notifier *notify.Notifier
	stdout   io.Writer
	stderr   io.Writer

	configPath    string
	themeName     string
	verbose       bool
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	activeTheme   *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("sketchpad", flag.ContinueOnError),
		program: "sketchpad",
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	r.fs.SetOutput(r.stderr)
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "config file to load instead of the default search path")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (light, dark, high-contrast or a file)")
	r.fs.BoolVar(&r.verbose, "v", false, "log surface activity to stderr")
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", false, "show a desktop notification after capturing a background")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving a drawing")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

// load reads the configuration and applies the precedence
// CLI > Env > Config > Default.
func (r *root) load() {
	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	cfg.ApplyEnv(os.Getenv)
	r.config = cfg

	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-capture"] {
		r.captureAlerts = cfg.Notify.Capture
	}
	if !set["notify-save"] {
		r.saveAlerts = cfg.Notify.Save
	}
	if !set["notify-copy"] {
		r.copyAlerts = cfg.Notify.Copy
	}

	r.notifier = notify.New(notify.LoadPreferences())
	r.notifier.Enable(notify.EventCapture, r.captureAlerts)
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventSaveFailed, cfg.Notify.SaveFailed)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)

	themeName := r.themeName
	if themeName == "" {
		themeName = cfg.Theme
	}
	tl := theme.NewLoader()
	tl.Custom = cfg.Themes
	t, err := tl.Load(themeName)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		t = theme.Default()
	}
	r.activeTheme = t
}

// surfaceOptions returns the configured canvas defaults followed by extra.
func (r *root) surfaceOptions(extra ...surface.Option) []surface.Option {
	opts := r.config.SurfaceOptions()
	if r.verbose {
		opts = append(opts, surface.WithLogger(log.New(r.stderr, "surface: ", log.LstdFlags)))
	}
	return append(opts, extra...)
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.load()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "paint":
		cmd, err = parsePaintCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	case "help":
		err = &UsageError{of: r}
	default:
		fmt.Fprintf(r.stderr, "unknown command %q\n", cmdName)
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.Is(err, flag.ErrHelp):
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		default:
			fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
			os.Exit(1)
		}
	}
}
