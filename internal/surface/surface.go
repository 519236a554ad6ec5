package surface

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
)

// Phase is the stage of a pointer gesture.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancel:
		return "cancel"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the controller's gesture state.
type State int

const (
	StateIdle State = iota
	StateTracking
)

func (s State) String() string {
	if s == StateTracking {
		return "tracking"
	}
	return "idle"
}

// Listener receives notifications from the surface. Both methods run on the
// caller's goroutine, synchronously.
type Listener interface {
	// OnAction fires after a commit, undo, redo or clear.
	OnAction()
	// OnCanvasClick fires when a pointer-up lands while drawing is disabled.
	OnCanvasClick()
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Action      func()
	CanvasClick func()
}

func (l ListenerFuncs) OnAction() {
	if l.Action != nil {
		l.Action()
	}
}

func (l ListenerFuncs) OnCanvasClick() {
	if l.CanvasClick != nil {
		l.CanvasClick()
	}
}

// Option configures a Surface.
type Option func(*Surface)

// WithListener registers the notification target.
func WithListener(l Listener) Option { return func(s *Surface) { s.listener = l } }

// WithLogger routes debug traces to l.
func WithLogger(l *log.Logger) Option { return func(s *Surface) { s.logger = l } }

// WithHistoryLimit caps how many actions stay undoable.
func WithHistoryLimit(n int) Option { return func(s *Surface) { s.history = NewHistory(n) } }

// WithBackgroundColor sets the solid plane used without a background image.
func WithBackgroundColor(c color.RGBA) Option {
	return func(s *Surface) { s.compositor.SetBackgroundColor(c) }
}

// WithStyle sets the initial color and width.
func WithStyle(st Style) Option {
	return func(s *Surface) {
		s.SetColor(st.Color)
		s.SetWidth(st.Width)
	}
}

// WithMode sets the initial mode.
func WithMode(m Mode) Option { return func(s *Surface) { s.tool.SetMode(m) } }

// WithSize allocates the raster immediately.
func WithSize(w, h int) Option { return func(s *Surface) { s.Resize(w, h) } }

// Surface routes pointer input into actions, keeps the history and the
// composed raster in sync and notifies the listener.
type Surface struct {
	tool       Tool
	history    *History
	compositor *Compositor
	style      Style
	enabled    bool
	listener   Listener
	logger     *log.Logger
}

// New returns an idle surface in pencil mode with drawing enabled.
func New(opts ...Option) *Surface {
	s := &Surface{
		history:    NewHistory(0),
		compositor: NewCompositor(DefaultBackground),
		style:      DefaultStyle(),
		enabled:    true,
		logger:     log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(s)
	}
	s.recomposite()
	return s
}

// SetListener replaces the listener. nil disables notifications.
func (s *Surface) SetListener(l Listener) { s.listener = l }

// OnPointerEvent feeds one pointer sample into the surface.
// Samples with non-finite coordinates are dropped.
func (s *Surface) OnPointerEvent(phase Phase, p Point) {
	if (phase == PhaseDown || phase == PhaseMove) && !p.finite() {
		return
	}
	switch phase {
	case PhaseDown:
		if s.tool.Down(p, s.style) {
			s.logf("discarded stale %s action", s.tool.Mode())
		}
	case PhaseMove:
		s.tool.Move(p)
	case PhaseUp:
		s.pointerUp()
	case PhaseCancel:
		if s.tool.Cancel() {
			s.logf("gesture cancelled")
		}
	}
}

func (s *Surface) pointerUp() {
	if !s.enabled {
		s.tool.Cancel()
		if s.listener != nil {
			s.listener.OnCanvasClick()
		}
		return
	}
	a := s.tool.Up()
	if a == nil {
		return
	}
	s.history.Commit(a)
	s.compositor.DrawIncremental(a)
	s.logf("commit %T %s", a, a.ID())
	s.notifyAction()
}

// SetDrawingEnabled chooses whether pointer-up commits or acts as a click.
func (s *Surface) SetDrawingEnabled(enabled bool) { s.enabled = enabled }

// DrawingEnabled reports the pointer-up interpretation.
func (s *Surface) DrawingEnabled() bool { return s.enabled }

// SetMode selects the tool. Unknown modes are ignored.
func (s *Surface) SetMode(m Mode) {
	if !s.tool.SetMode(m) {
		s.logf("ignored unknown mode %d", int(m))
	}
}

// Mode returns the current tool mode.
func (s *Surface) Mode() Mode { return s.tool.Mode() }

// SetColor changes the color used by the next action.
func (s *Surface) SetColor(c color.RGBA) { s.style.Color = c }

// SetWidth changes the width used by the next action. Widths outside
// (0, MaxWidth] and NaN are ignored.
func (s *Surface) SetWidth(w float64) {
	if !ValidWidth(w) {
		return
	}
	s.style.Width = w
}

// Style returns the template used to seed the next action.
func (s *Surface) Style() Style { return s.style }

// State reports whether a gesture is in progress.
func (s *Surface) State() State {
	if s.tool.Tracking() {
		return StateTracking
	}
	return StateIdle
}

// Undo reverts the last committed action.
func (s *Surface) Undo() {
	if !s.history.Undo() {
		return
	}
	s.recomposite()
	s.logf("undo")
	s.notifyAction()
}

// Redo reapplies the last undone action.
func (s *Surface) Redo() {
	if !s.history.Redo() {
		return
	}
	s.recomposite()
	s.logf("redo")
	s.notifyAction()
}

// ClearAll drops every action and returns to the bare background.
func (s *Surface) ClearAll() {
	s.history.Clear()
	s.recomposite()
	s.logf("clear")
	s.notifyAction()
}

// CanUndo reports whether Undo would change anything.
func (s *Surface) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Surface) CanRedo() bool { return s.history.CanRedo() }

// Actions returns the undoable actions in commit order.
func (s *Surface) Actions() []Action { return s.history.Committed() }

// Counts returns the sizes of the committed and undone stacks.
func (s *Surface) Counts() (committed, undone int) { return s.history.Len() }

// SetBackgroundImage replaces the background plane. nil selects the solid
// color.
func (s *Surface) SetBackgroundImage(img image.Image) {
	s.compositor.SetBackground(img)
	s.recomposite()
}

// SetBackgroundColor changes the solid plane color.
func (s *Surface) SetBackgroundColor(c color.RGBA) {
	s.compositor.SetBackgroundColor(c)
	s.recomposite()
}

// BackgroundColor returns the solid plane color.
func (s *Surface) BackgroundColor() color.RGBA { return s.compositor.BackgroundColor() }

// Resize reallocates the raster and discards any in-progress action. A resize
// to the current size is ignored and leaves the gesture alone.
func (s *Surface) Resize(w, h int) {
	if !s.compositor.Resize(w, h) {
		return
	}
	if s.tool.Cancel() {
		s.logf("resize discarded in-progress action")
	}
	s.recomposite()
}

// Size returns the raster size.
func (s *Surface) Size() (w, h int) { return s.compositor.Size() }

// Snapshot returns a copy of the composed raster.
func (s *Surface) Snapshot() *image.RGBA { return s.compositor.Snapshot() }

// Composed returns the live raster without copying. Callers must not modify
// it or keep it across surface calls.
func (s *Surface) Composed() *image.RGBA { return s.compositor.Composed() }

// Preview returns the composed raster with the in-progress action drawn on
// top.
func (s *Surface) Preview() *image.RGBA { return s.compositor.Preview(s.tool.Active()) }

func (s *Surface) recomposite() {
	s.compositor.FullRecomposite(s.history.Drawn())
}

func (s *Surface) notifyAction() {
	if s.listener != nil {
		s.listener.OnAction()
	}
}

func (s *Surface) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
