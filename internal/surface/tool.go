package surface

import (
	"fmt"
	"strings"
)

// Mode selects which action a pointer-down starts.
type Mode int

const (
	ModePencil Mode = iota
	ModeCircle
	ModeRectangle
	ModeEraser
)

var modeNames = []string{"pencil", "circle", "rectangle", "eraser"}

// Modes lists every valid mode in toolbar order.
func Modes() []Mode { return []Mode{ModePencil, ModeCircle, ModeRectangle, ModeEraser} }

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool { return m >= ModePencil && m <= ModeEraser }

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name or its common short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pencil", "pen", "draw", "stroke":
		return ModePencil, nil
	case "circle":
		return ModeCircle, nil
	case "rectangle", "rect":
		return ModeRectangle, nil
	case "eraser", "erase":
		return ModeEraser, nil
	}
	return ModePencil, fmt.Errorf("unknown mode %q", s)
}

// Tool turns pointer samples into an in-progress action for the current
// mode. At most one action is in progress at a time.
type Tool struct {
	mode   Mode
	active Action
}

// Mode returns the current mode.
func (t *Tool) Mode() Mode { return t.mode }

// SetMode switches the mode. Unknown values leave it unchanged and report
// false.
func (t *Tool) SetMode(m Mode) bool {
	if !m.Valid() {
		return false
	}
	t.mode = m
	return true
}

// Tracking reports whether an action is in progress.
func (t *Tool) Tracking() bool { return t.active != nil }

// Active returns the in-progress action or nil.
func (t *Tool) Active() Action { return t.active }

// Down starts a new action at p. A stale in-progress action is dropped and
// reported through the return value.
func (t *Tool) Down(p Point, style Style) (discarded bool) {
	discarded = t.active != nil
	style.Compositing = Normal
	switch t.mode {
	case ModeCircle:
		t.active = NewCircle(style, p, p)
	case ModeRectangle:
		t.active = NewRectangle(style, p, p)
	case ModeEraser:
		style.Compositing = Erase
		t.active = NewStroke(style, p)
	default:
		t.active = NewStroke(style, p)
	}
	return discarded
}

// Move updates the in-progress action. It is a no-op while idle.
func (t *Tool) Move(p Point) bool {
	if t.active == nil {
		return false
	}
	t.active.extend(p)
	return true
}

// Up finalizes the in-progress action and returns it, or nil while idle.
func (t *Tool) Up() Action {
	a := t.active
	t.active = nil
	return a
}

// Cancel drops the in-progress action.
func (t *Tool) Cancel() bool {
	had := t.active != nil
	t.active = nil
	return had
}
