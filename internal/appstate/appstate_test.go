package appstate

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/sketchpad/internal/capture"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/imageio"
	"github.com/example/sketchpad/internal/palette"
	"github.com/example/sketchpad/internal/surface"
	"github.com/example/sketchpad/internal/theme"
)

// recorder keeps every non-paint event the window posts.
type recorder struct {
	ch chan interface{}
}

func (r *recorder) Send(ev interface{}) {
	if _, ok := ev.(paint.Event); ok {
		return
	}
	select {
	case r.ch <- ev:
	default:
	}
}

func (r *recorder) next(t *testing.T) interface{} {
	t.Helper()
	select {
	case ev := <-r.ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event posted")
	}
	return nil
}

type clicks struct{ actions, clicks int }

func (c *clicks) OnAction()      { c.actions++ }
func (c *clicks) OnCanvasClick() { c.clicks++ }

func newTestWindow(t *testing.T, opts ...Option) (*window, *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	saver := export.New(ctx, export.WithDir(t.TempDir()), export.WithFormat(imageio.PNG))
	t.Cleanup(func() {
		saver.Close()
		cancel()
	})
	opts = append([]Option{WithSurface(surface.New(surface.WithSize(120, 90)))}, opts...)
	a := New(opts...)
	rec := &recorder{ch: make(chan interface{}, 16)}
	w := newWindow(ctx, a, rec, saver)
	ww, wh := windowSize(120, 90, len(paletteColors()), len(paletteWidths()))
	w.resize(ww, wh)
	return w, rec
}

func press(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func move(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Direction: mouse.DirNone}
}

func release(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func dragOnCanvas(w *window, pts ...image.Point) {
	o := w.layout.canvas.Min
	w.mouse(press(o.Add(pts[0])))
	for _, p := range pts[1:] {
		w.mouse(move(o.Add(p)))
	}
	w.mouse(release(o.Add(pts[len(pts)-1])))
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestPointerPhases(t *testing.T) {
	var p pointer
	if _, ok := p.phase(move(image.Pt(1, 1)), true); ok {
		t.Fatal("hover should not produce a phase")
	}
	if _, ok := p.phase(press(image.Pt(1, 1)), false); ok {
		t.Fatal("press off the canvas should be ignored")
	}
	for _, tc := range []struct {
		e    mouse.Event
		want surface.Phase
	}{
		{press(image.Pt(1, 1)), surface.PhaseDown},
		{move(image.Pt(2, 2)), surface.PhaseMove},
		{release(image.Pt(2, 2)), surface.PhaseUp},
	} {
		got, ok := p.phase(tc.e, true)
		if !ok || got != tc.want {
			t.Fatalf("phase(%v) = %v %v, want %v", tc.e.Direction, got, ok, tc.want)
		}
	}
	if _, ok := p.phase(release(image.Pt(2, 2)), true); ok {
		t.Fatal("release without press should be ignored")
	}
	p.phase(press(image.Pt(1, 1)), true)
	if !p.cancel() || p.cancel() {
		t.Fatal("cancel should report the gesture once")
	}
}

func TestLayoutHitTest(t *testing.T) {
	l := newLayout(400, 500, 16, 6)
	if l.canvas.Min != image.Pt(toolbarWidth, headerHeight) || l.canvas.Max != image.Pt(400, 500-statusHeight) {
		t.Fatalf("canvas = %v", l.canvas)
	}
	for _, tc := range []struct {
		p    image.Point
		want hit
	}{
		{center(l.canvas), hit{regionCanvas, -1}},
		{center(l.modes[2]), hit{regionMode, 2}},
		{center(l.swatches[5]), hit{regionSwatch, 5}},
		{center(l.widths[3]), hit{regionWidth, 3}},
		{center(l.commands[1]), hit{regionCommand, 1}},
		{image.Pt(1, 1), noHit},
	} {
		if got := l.hitTest(tc.p); got != tc.want {
			t.Fatalf("hitTest(%v) = %+v, want %+v", tc.p, got, tc.want)
		}
	}
	if got := l.canvasPoint(float32(toolbarWidth+5), float32(headerHeight+7)); got != surface.Pt(5, 7) {
		t.Fatalf("canvasPoint = %v", got)
	}
	for i := 1; i < len(l.swatches); i++ {
		if l.swatches[i].Overlaps(l.swatches[i-1]) {
			t.Fatalf("swatches %d and %d overlap", i-1, i)
		}
	}
}

func TestWindowSizeFitsToolbar(t *testing.T) {
	w, h := windowSize(10, 10, 16, 6)
	l := newLayout(w, h, 16, 6)
	if last := l.widths[len(l.widths)-1]; last.Max.Y > h-statusHeight {
		t.Fatalf("width rows end at %d in a %d tall window", last.Max.Y, h)
	}
	if l.canvas.Dx() != 10 {
		t.Fatalf("canvas = %v", l.canvas)
	}
}

func TestKeymapLookup(t *testing.T) {
	k := keymap{}
	for _, sc := range ctrl('z', key.CodeZ, key.ModShift) {
		k[sc] = "redo"
	}
	k[KeyShortcut{Rune: 'p'}] = "pencil"
	k[KeyShortcut{Code: key.CodeEscape}] = "cancel"

	for _, tc := range []struct {
		e    key.Event
		want string
	}{
		{key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}, "redo"},
		{key.Event{Rune: -1, Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}, "redo"},
		{key.Event{Rune: 'p', Code: key.CodeP}, "pencil"},
		{key.Event{Rune: -1, Code: key.CodeEscape}, "cancel"},
	} {
		if got, ok := k.lookup(tc.e); !ok || got != tc.want {
			t.Fatalf("lookup(%+v) = %q %v", tc.e, got, ok)
		}
	}
	if _, ok := k.lookup(key.Event{Rune: 'z', Code: key.CodeZ}); ok {
		t.Fatal("plain z should not match a control shortcut")
	}
}

func TestDragCommitsAndEnablesUndo(t *testing.T) {
	l := &clicks{}
	w, _ := newTestWindow(t, WithListener(l))
	if w.isEnabled("undo") || w.isEnabled("save") {
		t.Fatal("undo and save should start disabled")
	}
	dragOnCanvas(w, image.Pt(10, 10), image.Pt(40, 10), image.Pt(40, 40))
	if committed, _ := w.s.Counts(); committed != 1 {
		t.Fatalf("committed = %d", committed)
	}
	if !w.isEnabled("undo") || w.isEnabled("redo") || !w.isEnabled("save") {
		t.Fatalf("enabled = %v", w.enabled)
	}
	if l.actions != 1 {
		t.Fatalf("listener actions = %d", l.actions)
	}
	if c := w.s.Composed().RGBAAt(25, 10); c.A == 0 || c.R > 50 {
		t.Fatalf("stroke pixel = %v", c)
	}

	w.key(key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress})
	if w.s.CanUndo() || !w.isEnabled("redo") || w.isEnabled("undo") {
		t.Fatalf("after undo enabled = %v", w.enabled)
	}
	w.key(key.Event{Rune: 'y', Code: key.CodeY, Modifiers: key.ModControl, Direction: key.DirPress})
	if !w.s.CanUndo() || l.actions != 3 {
		t.Fatalf("after redo actions = %d", l.actions)
	}
}

func TestDisabledCommandsDoNothing(t *testing.T) {
	l := &clicks{}
	w, _ := newTestWindow(t, WithListener(l))
	w.trigger("undo")
	w.trigger("clear")
	if l.actions != 0 {
		t.Fatalf("listener actions = %d", l.actions)
	}
}

func TestDrawingOffReportsClick(t *testing.T) {
	l := &clicks{}
	w, _ := newTestWindow(t, WithListener(l))
	w.key(key.Event{Rune: 'd', Code: key.CodeD, Direction: key.DirPress})
	if w.s.DrawingEnabled() {
		t.Fatal("d should toggle drawing off")
	}
	dragOnCanvas(w, image.Pt(5, 5))
	if l.clicks != 1 || l.actions != 0 {
		t.Fatalf("clicks=%d actions=%d", l.clicks, l.actions)
	}
	if !strings.Contains(w.message, "drawing is off") {
		t.Fatalf("message = %q", w.message)
	}
}

func TestFocusLossCancelsGesture(t *testing.T) {
	w, _ := newTestWindow(t)
	o := w.layout.canvas.Min
	w.mouse(press(o.Add(image.Pt(5, 5))))
	w.mouse(move(o.Add(image.Pt(30, 30))))
	if w.s.State() != surface.StateTracking {
		t.Fatal("expected tracking")
	}
	if !w.lifecycle(lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageVisible}) {
		t.Fatal("focus loss should not close the window")
	}
	if w.s.State() != surface.StateIdle || w.ptr.pressed {
		t.Fatal("focus loss should cancel the gesture")
	}
	w.mouse(release(o.Add(image.Pt(30, 30))))
	if committed, _ := w.s.Counts(); committed != 0 {
		t.Fatalf("committed = %d", committed)
	}
	if w.lifecycle(lifecycle.Event{From: lifecycle.StageVisible, To: lifecycle.StageDead}) {
		t.Fatal("StageDead should close the window")
	}
}

func TestToolbarClicks(t *testing.T) {
	w, _ := newTestWindow(t)
	w.mouse(press(center(w.layout.modes[int(surface.ModeEraser)])))
	if w.s.Mode() != surface.ModeEraser {
		t.Fatalf("mode = %v", w.s.Mode())
	}
	w.mouse(press(center(w.layout.swatches[3])))
	if w.s.Style().Color != palette.ColorAt(3) {
		t.Fatalf("color = %v", w.s.Style().Color)
	}
	w.mouse(press(center(w.layout.widths[0])))
	if w.s.Style().Width != palette.WidthAt(0) {
		t.Fatalf("width = %v", w.s.Style().Width)
	}
	w.key(key.Event{Rune: ']', Direction: key.DirPress})
	if w.s.Style().Width != palette.WidthAt(1) {
		t.Fatalf("thicker width = %v", w.s.Style().Width)
	}
	w.key(key.Event{Rune: 'c', Code: key.CodeC, Direction: key.DirPress})
	if w.s.Mode() != surface.ModeCircle {
		t.Fatalf("mode = %v", w.s.Mode())
	}
	quit := -1
	for i, c := range commands {
		if c.name == "quit" {
			quit = i
		}
	}
	if w.mouse(press(center(w.layout.commands[quit]))) {
		t.Fatal("quit button should close the window")
	}
}

func TestSavePostsResult(t *testing.T) {
	w, rec := newTestWindow(t)
	dragOnCanvas(w, image.Pt(10, 10), image.Pt(50, 50))
	w.key(key.Event{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl, Direction: key.DirPress})
	ev, ok := rec.next(t).(saveDone)
	if !ok {
		t.Fatalf("unexpected event %T", ev)
	}
	if ev.Err != nil {
		t.Fatalf("save: %v", ev.Err)
	}
	img, err := imageio.Load(ev.Path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != w.layout.canvas.Dx() {
		t.Fatalf("saved %v", img.Bounds())
	}
	w.saved(ev.Result)
	if !strings.HasPrefix(w.message, "saved ") {
		t.Fatalf("message = %q", w.message)
	}
}

func TestCaptureAndPasteReplaceBackground(t *testing.T) {
	desktop := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range desktop.Pix {
		desktop.Pix[i] = 0xff
	}
	prevShot, prevRead := screenshot, readClipboard
	t.Cleanup(func() { screenshot, readClipboard = prevShot, prevRead })
	screenshot = func(ctx context.Context, opts capture.Options) (*image.RGBA, capture.Source, error) {
		return desktop, capture.SourceX11, nil
	}

	w, rec := newTestWindow(t, WithSurface(surface.New(surface.WithSize(120, 90), surface.WithBackgroundColor(color.RGBA{0, 0, 0, 255}))))
	w.trigger("capture")
	if w.isEnabled("capture") {
		t.Fatal("capture should be disabled while running")
	}
	ev, ok := rec.next(t).(backgroundLoaded)
	if !ok || ev.err != nil {
		t.Fatalf("event = %+v", ev)
	}
	w.background(ev)
	if !w.isEnabled("capture") || !w.isEnabled("save") {
		t.Fatalf("enabled = %v", w.enabled)
	}
	if c := w.s.Composed().RGBAAt(60, 45); c.R < 250 || c.A != 255 {
		t.Fatalf("background pixel = %v", c)
	}

	readClipboard = func() (image.Image, error) { return nil, errors.New("empty") }
	w.trigger("paste")
	if !strings.Contains(w.message, "paste: empty") {
		t.Fatalf("message = %q", w.message)
	}
}

func TestRenderFrame(t *testing.T) {
	w, _ := newTestWindow(t)
	dragOnCanvas(w, image.Pt(10, 10), image.Pt(60, 10))
	st := w.paintState()
	st.message = "hello"
	st.messageUntil = time.Now().Add(time.Minute)
	th := theme.Default()
	p := newPainter(th)

	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	if !p.render(context.Background(), dst, st) {
		t.Fatal("render reported cancellation")
	}
	o := w.layout.canvas.Min
	if got := dst.RGBAAt(o.X+30, o.Y+10); got.R > 50 || got.A != 255 {
		t.Fatalf("stroke pixel = %v", got)
	}
	if got := dst.RGBAAt(o.X+60, o.Y+70); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("canvas pixel = %v", got)
	}
	if got := dst.RGBAAt(st.width-1, st.height-1); got != th.StatusBackground {
		t.Fatalf("status pixel = %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if p.render(ctx, dst, st) {
		t.Fatal("cancelled render should report false")
	}
}

func TestModeKeysSelectTheirOwnMode(t *testing.T) {
	w, _ := newTestWindow(t)
	for _, tc := range []struct {
		r    rune
		want surface.Mode
	}{
		{'r', surface.ModeRectangle},
		{'p', surface.ModePencil},
		{'e', surface.ModeEraser},
		{'c', surface.ModeCircle},
	} {
		w.key(key.Event{Rune: tc.r, Direction: key.DirPress})
		if w.s.Mode() != tc.want {
			t.Fatalf("key %q: mode = %v, want %v", tc.r, w.s.Mode(), tc.want)
		}
	}
}
