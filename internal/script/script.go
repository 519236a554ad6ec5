// Package script drives a surface from a plain text command language, one
// command per line. It backs the replay and interactive commands.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/example/sketchpad/internal/palette"
	"github.com/example/sketchpad/internal/surface"
)

// ErrExit is returned by Exec for the exit and quit commands.
var ErrExit = errors.New("exit")

// Runner executes commands against a surface.
type Runner struct {
	surface *surface.Surface
	out     io.Writer

	// Open decodes a background image. Required by "background PATH".
	Open func(path string) (image.Image, error)
	// Save writes a snapshot. Required by "save PATH".
	Save func(path string, img image.Image) error
}

// New returns a runner writing command output to out.
func New(s *surface.Surface, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{surface: s, out: out}
}

type command struct {
	usage string
	run   func(r *Runner, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"mode":       {"mode pencil|circle|rectangle|eraser", (*Runner).mode},
		"color":      {"color CSS-COLOR", (*Runner).color},
		"width":      {"width PIXELS", (*Runner).width},
		"down":       {"down X Y", pointer(surface.PhaseDown)},
		"move":       {"move X Y", pointer(surface.PhaseMove)},
		"up":         {"up [X Y]", pointer(surface.PhaseUp)},
		"cancel":     {"cancel", pointer(surface.PhaseCancel)},
		"drag":       {"drag X0 Y0 X1 Y1 [X Y ...]", (*Runner).drag},
		"tap":        {"tap X Y", (*Runner).tap},
		"undo":       {"undo", noArgs((*surface.Surface).Undo)},
		"redo":       {"redo", noArgs((*surface.Surface).Redo)},
		"clear":      {"clear", noArgs((*surface.Surface).ClearAll)},
		"enable":     {"enable on|off", (*Runner).enable},
		"resize":     {"resize W H", (*Runner).resize},
		"background": {"background PATH|none|color CSS-COLOR", (*Runner).background},
		"save":       {"save PATH", (*Runner).save},
		"status":     {"status", (*Runner).status},
		"help":       {"help", (*Runner).help},
	}
}

// Commands returns the usage line of every command, sorted.
func Commands() []string {
	out := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		out = append(out, c.usage)
	}
	out = append(out, "exit")
	sort.Strings(out)
	return out
}

// Exec runs a single command line. Blank lines and lines starting with '#'
// are ignored.
func (r *Runner) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	if name == "exit" || name == "quit" {
		return ErrExit
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return cmd.run(r, fields[1:])
}

// Run executes every line from in. It stops at the first error, reported
// with its line number, or at exit.
func (r *Runner) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		if err := r.Exec(scanner.Text()); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func noArgs(fn func(*surface.Surface)) func(*Runner, []string) error {
	return func(r *Runner, args []string) error {
		if len(args) != 0 {
			return fmt.Errorf("unexpected arguments %v", args)
		}
		fn(r.surface)
		return nil
	}
}

func (r *Runner) mode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("mode requires a name")
	}
	m, err := surface.ParseMode(args[0])
	if err != nil {
		return err
	}
	r.surface.SetMode(m)
	return nil
}

func (r *Runner) color(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("color requires a value")
	}
	c, err := palette.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}
	r.surface.SetColor(c)
	return nil
}

func (r *Runner) width(args []string) error {
	v, err := expectFloats(args, 1, "width")
	if err != nil {
		return err
	}
	if !surface.ValidWidth(v[0]) {
		return fmt.Errorf("width must be between 0 and %d, got %g", surface.MaxWidth, v[0])
	}
	r.surface.SetWidth(v[0])
	return nil
}

func pointer(phase surface.Phase) func(*Runner, []string) error {
	return func(r *Runner, args []string) error {
		switch {
		case phase == surface.PhaseCancel:
			if len(args) != 0 {
				return fmt.Errorf("cancel takes no arguments")
			}
			r.surface.OnPointerEvent(phase, surface.Point{})
			return nil
		case phase == surface.PhaseUp && len(args) == 0:
			r.surface.OnPointerEvent(phase, surface.Point{})
			return nil
		}
		v, err := expectFloats(args, 2, phase.String())
		if err != nil {
			return err
		}
		p := surface.Pt(v[0], v[1])
		if phase == surface.PhaseUp {
			r.surface.OnPointerEvent(surface.PhaseMove, p)
		}
		r.surface.OnPointerEvent(phase, p)
		return nil
	}
}

func (r *Runner) drag(args []string) error {
	if len(args) < 4 || len(args)%2 != 0 {
		return fmt.Errorf("drag requires at least two x y pairs")
	}
	v, err := expectFloats(args, len(args), "drag")
	if err != nil {
		return err
	}
	r.surface.OnPointerEvent(surface.PhaseDown, surface.Pt(v[0], v[1]))
	for i := 2; i < len(v); i += 2 {
		r.surface.OnPointerEvent(surface.PhaseMove, surface.Pt(v[i], v[i+1]))
	}
	r.surface.OnPointerEvent(surface.PhaseUp, surface.Pt(v[len(v)-2], v[len(v)-1]))
	return nil
}

func (r *Runner) tap(args []string) error {
	v, err := expectFloats(args, 2, "tap")
	if err != nil {
		return err
	}
	p := surface.Pt(v[0], v[1])
	r.surface.OnPointerEvent(surface.PhaseDown, p)
	r.surface.OnPointerEvent(surface.PhaseUp, p)
	return nil
}

func (r *Runner) enable(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("enable requires on or off")
	}
	on, err := parseSwitch(args[0])
	if err != nil {
		return err
	}
	r.surface.SetDrawingEnabled(on)
	return nil
}

func (r *Runner) resize(args []string) error {
	v, err := expectInts(args, 2, "resize")
	if err != nil {
		return err
	}
	if v[0] <= 0 || v[1] <= 0 {
		return fmt.Errorf("resize requires positive dimensions")
	}
	r.surface.Resize(v[0], v[1])
	return nil
}

func (r *Runner) background(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("background requires a path, none or color")
	}
	switch strings.ToLower(args[0]) {
	case "none":
		r.surface.SetBackgroundImage(nil)
		return nil
	case "color":
		c, err := palette.Parse(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		r.surface.SetBackgroundColor(c)
		return nil
	}
	if r.Open == nil {
		return fmt.Errorf("background images are not available")
	}
	img, err := r.Open(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	r.surface.SetBackgroundImage(img)
	return nil
}

func (r *Runner) save(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("save requires a path")
	}
	if r.Save == nil {
		return fmt.Errorf("saving is not available")
	}
	path := strings.Join(args, " ")
	if err := r.Save(path, r.surface.Snapshot()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fmt.Fprintf(r.out, "saved %s\n", path)
	return nil
}

func (r *Runner) status(args []string) error {
	s := r.surface
	w, h := s.Size()
	committed, undone := s.Counts()
	st := s.Style()
	drawing := "on"
	if !s.DrawingEnabled() {
		drawing = "off"
	}
	fmt.Fprintf(r.out, "mode=%s color=%s width=%g size=%dx%d actions=%d undone=%d drawing=%s state=%s\n",
		s.Mode(), palette.Hex(st.Color), st.Width, w, h, committed, undone, drawing, s.State())
	return nil
}

func (r *Runner) help(args []string) error {
	for _, u := range Commands() {
		fmt.Fprintln(r.out, u)
	}
	return nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func expectFloats(args []string, n int, name string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numbers", name, n)
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: invalid number %q", name, a)
		}
		out[i] = v
	}
	return out, nil
}

func expectInts(args []string, n int, name string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integers", name, n)
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", name, a)
		}
		out[i] = v
	}
	return out, nil
}
