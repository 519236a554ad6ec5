// Package appstate runs the shiny window that puts a drawing surface on
// screen.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/sketchpad/internal/capture"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/surface"
	"github.com/example/sketchpad/internal/theme"
)

const (
	defaultCanvasWidth  = 800
	defaultCanvasHeight = 600
)

// AppState holds application configuration for the UI.
type AppState struct {
	Surface *surface.Surface
	Theme   *theme.Theme
	// Output is the path used by save. Empty picks a fresh name per save.
	Output string

	saver    *export.Saver
	notifier *notify.Notifier
	capture  capture.Options
	listener surface.Listener

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSurface sets the surface shown in the window.
func WithSurface(s *surface.Surface) Option { return func(a *AppState) { a.Surface = s } }

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithOutput sets the output file path used when saving.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaver supplies the export worker. Without one the window starts its
// own and closes it on exit.
func WithSaver(s *export.Saver) Option { return func(a *AppState) { a.saver = s } }

// WithNotifier announces saves, copies and captures.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithCaptureOptions configures the screenshot used by the capture action.
func WithCaptureOptions(o capture.Options) Option { return func(a *AppState) { a.capture = o } }

// WithListener receives the surface notifications after the window has
// handled them.
func WithListener(l surface.Listener) Option { return func(a *AppState) { a.listener = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{}
	for _, o := range opts {
		o(a)
	}
	if a.Surface == nil {
		a.Surface = surface.New(surface.WithSize(defaultCanvasWidth, defaultCanvasHeight))
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main opens the window on s and blocks until it closes.
func (a *AppState) Main(s screen.Screen) {
	fitToolbar()
	defer a.notifyClose()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	saver := a.saver
	if saver == nil {
		saver = export.New(ctx, export.WithNotifier(a.notifier), export.WithBackground(a.Surface.BackgroundColor()))
		defer saver.Close()
	}

	cw, ch := a.Surface.Size()
	if cw <= 0 || ch <= 0 {
		cw, ch = defaultCanvasWidth, defaultCanvasHeight
	}
	width, height := windowSize(cw, ch, len(paletteColors()), len(paletteWidths()))
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	win := newWindow(ctx, a, w, saver)
	win.resize(width, height)

	p := newPainter(a.Theme)
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, p, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if !win.lifecycle(e) {
				stopPaint()
				return
			}
		case size.Event:
			win.resize(e.WidthPx, e.HeightPx)
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := win.paintState()
			select {
			case paintCh <- st:
			default:
				// a frame is already queued; replace it with the newer one
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if !win.mouse(e) {
				stopPaint()
				return
			}
		case key.Event:
			if !win.key(e) {
				stopPaint()
				return
			}
		case saveDone:
			win.saved(e.Result)
		case backgroundLoaded:
			win.background(e)
		case error:
			log.Print(e)
		}
	}
}

type saveDone struct {
	export.Result
}

type backgroundLoaded struct {
	img    image.Image
	source string
	err    error
}
