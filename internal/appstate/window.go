package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/sketchpad/internal/capture"
	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/palette"
	"github.com/example/sketchpad/internal/surface"
)

// eventSender is the part of screen.Window the event handlers post to.
type eventSender interface {
	Send(event interface{})
}

var (
	readClipboard  = clipboard.ReadImage
	writeClipboard = clipboard.WriteImage
	screenshot     = capture.Screenshot
)

func paletteColors() []palette.Entry { return palette.Colors() }

func paletteWidths() []float64 { return palette.Widths() }

// window is the event loop's view of one open window. All of its methods run
// on the event loop goroutine.
type window struct {
	ctx   context.Context
	app   *AppState
	s     *surface.Surface
	out   eventSender
	saver *export.Saver

	width, height int
	layout        layout
	ptr           pointer
	hover         hit

	keys    keymap
	actions map[string]func()
	enabled map[string]bool

	hasBackground bool
	capturing     bool
	message       string
	messageUntil  time.Time
}

func newWindow(ctx context.Context, a *AppState, out eventSender, saver *export.Saver) *window {
	w := &window{
		ctx:     ctx,
		app:     a,
		s:       a.Surface,
		out:     out,
		saver:   saver,
		hover:   noHit,
		keys:    keymap{},
		actions: map[string]func(){},
		enabled: map[string]bool{},
	}
	palette.Ensure(w.s.Style().Color, "")
	palette.EnsureWidth(w.s.Style().Width)

	w.s.SetListener(surface.ListenerFuncs{
		Action: func() {
			w.refresh()
			if a.listener != nil {
				a.listener.OnAction()
			}
		},
		CanvasClick: func() {
			w.flash("drawing is off, press D to enable")
			if a.listener != nil {
				a.listener.OnCanvasClick()
			}
		},
	})

	w.register("undo", ctrl('z', key.CodeZ, 0), w.s.Undo)
	w.register("redo", append(ctrl('y', key.CodeY, 0), ctrl('z', key.CodeZ, key.ModShift)...), w.s.Redo)
	w.register("clear", shortcutList{{Code: key.CodeDeleteForward}}, w.s.ClearAll)
	w.register("save", ctrl('s', key.CodeS, 0), w.save)
	w.register("copy", ctrl('c', key.CodeC, 0), w.copy)
	w.register("paste", ctrl('v', key.CodeV, 0), w.paste)
	w.register("capture", ctrl('n', key.CodeN, 0), w.capture)
	w.register("drawing", shortcutList{{Rune: 'd'}}, func() {
		w.s.SetDrawingEnabled(!w.s.DrawingEnabled())
		if w.s.DrawingEnabled() {
			w.flash("drawing on")
		} else {
			w.flash("drawing off")
		}
	})
	w.register("cancel", shortcutList{{Code: key.CodeEscape}}, w.cancel)
	w.register("quit", shortcutList{{Rune: 'q'}}, nil)
	for _, m := range surface.Modes() {
		w.register(m.String(), shortcutList{{Rune: unicode.ToLower(rune(modeLabel(m)[0]))}}, func() { w.s.SetMode(m) })
	}
	w.register("thinner", shortcutList{{Rune: '['}}, func() { w.stepWidth(-1) })
	w.register("thicker", shortcutList{{Rune: ']'}}, func() { w.stepWidth(1) })

	w.refresh()
	return w
}

// register binds an action name to fn and its keyboard shortcuts.
func (w *window) register(name string, keys KeyboardShortcuts, fn func()) {
	w.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			w.keys[sc] = name
		}
	}
}

// refresh recomputes which commands can run. It is driven by the surface's
// action notifications and by background changes.
func (w *window) refresh() {
	committed, undone := w.s.Counts()
	w.enabled["undo"] = w.s.CanUndo()
	w.enabled["redo"] = w.s.CanRedo()
	w.enabled["clear"] = committed > 0 || undone > 0
	w.enabled["save"] = committed > 0 || w.hasBackground
	w.enabled["copy"] = w.enabled["save"]
	w.enabled["capture"] = !w.capturing
}

func (w *window) isEnabled(name string) bool {
	if on, ok := w.enabled[name]; ok {
		return on
	}
	return true
}

// trigger runs the named action. It reports false when the window should
// close.
func (w *window) trigger(name string) bool {
	if name == "quit" {
		return false
	}
	fn, ok := w.actions[name]
	if !ok || fn == nil || !w.isEnabled(name) {
		return true
	}
	fn()
	w.repaint()
	return true
}

func (w *window) repaint() { w.out.Send(paint.Event{}) }

func (w *window) flash(msg string) {
	log.Print(msg)
	w.message = msg
	w.messageUntil = time.Now().Add(messageDuration)
	w.repaint()
}

func (w *window) resize(width, height int) {
	w.width, w.height = width, height
	w.layout = newLayout(width, height, len(paletteColors()), len(paletteWidths()))
	w.s.Resize(w.layout.canvas.Dx(), w.layout.canvas.Dy())
	if w.s.State() == surface.StateIdle {
		w.ptr.cancel()
	}
	w.repaint()
}

func (w *window) lifecycle(e lifecycle.Event) bool {
	if e.To == lifecycle.StageDead {
		return false
	}
	if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
		w.cancel()
	}
	return true
}

// cancel abandons an in-progress gesture.
func (w *window) cancel() {
	if w.ptr.cancel() {
		w.s.OnPointerEvent(surface.PhaseCancel, surface.Point{})
		w.repaint()
	}
}

// mouse handles a mouse event and reports false when the window should
// close.
func (w *window) mouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	h := w.layout.hitTest(p)

	if w.message != "" && time.Now().Before(w.messageUntil) && e.Direction == mouse.DirPress && h.region == regionCanvas {
		w.messageUntil = time.Time{}
		w.repaint()
	}

	if phase, ok := w.ptr.phase(e, h.region == regionCanvas); ok {
		w.s.OnPointerEvent(phase, w.layout.canvasPoint(e.X, e.Y))
		w.repaint()
		return true
	}
	if w.ptr.pressed {
		return true
	}

	if h != w.hover {
		w.hover = h
		w.repaint()
	}
	if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
		return true
	}
	switch h.region {
	case regionMode:
		w.s.SetMode(surface.Modes()[h.index])
	case regionSwatch:
		w.s.SetColor(palette.ColorAt(h.index))
	case regionWidth:
		w.s.SetWidth(palette.WidthAt(h.index))
	case regionCommand:
		return w.trigger(commands[h.index].name)
	default:
		return true
	}
	w.repaint()
	return true
}

// key handles a key event and reports false when the window should close.
func (w *window) key(e key.Event) bool {
	if e.Direction != key.DirPress {
		return true
	}
	name, ok := w.keys.lookup(e)
	if !ok {
		return true
	}
	return w.trigger(name)
}

func (w *window) stepWidth(delta int) {
	idx := palette.EnsureWidth(w.s.Style().Width) + delta
	widths := paletteWidths()
	if idx < 0 || idx >= len(widths) {
		return
	}
	w.s.SetWidth(widths[idx])
}

func (w *window) save() {
	img := w.s.Snapshot()
	err := w.saver.Save(img, w.app.Output, func(r export.Result) {
		w.out.Send(saveDone{r})
	})
	if err != nil {
		w.flash(fmt.Sprintf("save: %v", err))
		return
	}
	w.flash("saving...")
}

func (w *window) saved(r export.Result) {
	if r.Err != nil {
		w.flash(fmt.Sprintf("save failed: %v", r.Err))
		return
	}
	w.flash(fmt.Sprintf("saved %s", r.Path))
}

func (w *window) copy() {
	if err := writeClipboard(w.s.Snapshot()); err != nil {
		w.flash(fmt.Sprintf("copy: %v", err))
		return
	}
	w.app.notifier.Copy("")
	w.flash("drawing copied to clipboard")
}

func (w *window) paste() {
	img, err := readClipboard()
	if err != nil {
		w.flash(fmt.Sprintf("paste: %v", err))
		return
	}
	w.background(backgroundLoaded{img: img, source: "clipboard"})
}

// capture grabs the desktop off the event loop and posts the result back.
func (w *window) capture() {
	w.capturing = true
	w.refresh()
	opts := w.app.capture
	go func() {
		img, src, err := screenshot(w.ctx, opts)
		ev := backgroundLoaded{source: string(src), err: err}
		if err == nil {
			ev.img = img
		}
		w.out.Send(ev)
	}()
}

func (w *window) background(e backgroundLoaded) {
	if e.source != "clipboard" {
		w.capturing = false
	}
	if e.err != nil {
		w.refresh()
		w.flash(fmt.Sprintf("background: %v", e.err))
		return
	}
	w.s.SetBackgroundImage(e.img)
	w.hasBackground = e.img != nil
	w.refresh()
	if e.source != "clipboard" {
		w.app.notifier.Capture(e.source, e.img)
	}
	w.flash(fmt.Sprintf("background from %s", e.source))
}

func (w *window) status() string {
	committed, undone := w.s.Counts()
	drawing := "on"
	if !w.s.DrawingEnabled() {
		drawing = "off"
	}
	return fmt.Sprintf("%s  %s  width %g  actions %d/%d  drawing %s",
		w.s.Mode(), palette.Hex(w.s.Style().Color), w.s.Style().Width, committed, undone, drawing)
}

func (w *window) paintState() paintState {
	enabled := make([]bool, len(commands))
	for i, c := range commands {
		enabled[i] = w.isEnabled(c.name)
	}
	return paintState{
		width:        w.width,
		height:       w.height,
		canvas:       w.s.Preview(),
		mode:         w.s.Mode(),
		style:        w.s.Style(),
		drawing:      w.s.DrawingEnabled(),
		enabled:      enabled,
		hover:        w.hover,
		status:       w.status(),
		message:      w.message,
		messageUntil: w.messageUntil,
		colors:       paletteColors(),
		widths:       paletteWidths(),
	}
}
