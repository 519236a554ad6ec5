package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/sketchpad/internal/palette"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/surface"
	"github.com/example/sketchpad/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const messageDuration = 2 * time.Second

// paintState is everything a frame needs. It is built on the event loop and
// handed to the paint goroutine, so it must not share mutable data with the
// surface.
type paintState struct {
	width, height int
	canvas        *image.RGBA
	mode          surface.Mode
	style         surface.Style
	drawing       bool
	enabled       []bool
	hover         hit
	status        string
	message       string
	messageUntil  time.Time
	colors        []palette.Entry
	widths        []float64
}

// painter owns the cached widgets. Only the paint goroutine touches it.
type painter struct {
	theme    *theme.Theme
	backdrop render.Backdrop
	modes    []*CacheButton
	commands []*CacheButton
}

func newPainter(th *theme.Theme) *painter {
	p := &painter{
		theme:    th,
		backdrop: render.Backdrop{Size: 8, Light: th.CheckerLight, Dark: th.CheckerDark},
	}
	for _, m := range surface.Modes() {
		p.modes = append(p.modes, &CacheButton{Button: &LabelButton{label: modeLabel(m), theme: th}})
	}
	for _, c := range commands {
		p.commands = append(p.commands, &CacheButton{Button: &LabelButton{label: c.label, theme: th, border: true}})
	}
	return p
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, p *painter, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !p.render(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// render paints a whole frame into dst. It returns false when ctx was
// cancelled part way through.
func (p *painter) render(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := p.theme
	l := newLayout(st.width, st.height, len(st.colors), len(st.widths))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	p.backdrop.Draw(dst, l.canvas)
	if st.canvas != nil {
		draw.Draw(dst, l.canvas, st.canvas, st.canvas.Bounds().Min, draw.Over)
	}
	if ctx.Err() != nil {
		return false
	}

	p.drawHeader(dst, st)
	p.drawToolbar(dst, l, st)
	p.drawStatus(dst, l, st)
	if ctx.Err() != nil {
		return false
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		p.drawMessage(dst, st)
	}
	return ctx.Err() == nil
}

func (p *painter) drawHeader(dst *image.RGBA, st paintState) {
	th := p.theme
	draw.Draw(dst, image.Rect(0, 0, st.width, headerHeight), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	drawLabel(dst, title, 4, 16, th.Foreground)
	drawLabel(dst, st.status, toolbarWidth+4, 16, th.Foreground)
}

func (p *painter) drawToolbar(dst *image.RGBA, l layout, st paintState) {
	th := p.theme
	draw.Draw(dst, image.Rect(0, headerHeight, toolbarWidth, st.height-statusHeight), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)

	for i, cb := range p.modes {
		cb.SetRect(l.modes[i])
		state := StateDefault
		switch {
		case surface.Modes()[i] == st.mode:
			state = StatePressed
		case st.hover == (hit{regionMode, i}):
			state = StateHover
		}
		cb.Draw(dst, state)
	}

	for i, r := range l.swatches {
		c := st.colors[i].Color
		if c.A < 255 {
			render.Checkerboard(dst, r, 4, th.CheckerLight, th.CheckerDark)
		}
		draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
		if st.hover == (hit{regionSwatch, i}) {
			draw.Draw(dst, r, image.NewUniform(color.RGBA{255, 255, 255, 80}), image.Point{}, draw.Over)
		}
		if c == st.style.Color {
			strokeRect(dst, r.Inset(-1), th.SwatchSelected)
		}
	}

	sample := st.style.Color
	if st.mode == surface.ModeEraser {
		sample = th.ButtonText
	}
	for i, r := range l.widths {
		w := st.widths[i]
		bg := th.ButtonBackground
		switch {
		case w == st.style.Width:
			bg = th.ButtonBackgroundActive
		case st.hover == (hit{regionWidth, i}):
			bg = th.ButtonBackgroundHover
		}
		draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
		drawLabel(dst, fmt.Sprintf("%g", w), r.Min.X+4, r.Min.Y+12, th.ButtonText)
		thick := int(w + 0.5)
		if thick > r.Dy()-4 {
			thick = r.Dy() - 4
		}
		if thick < 1 {
			thick = 1
		}
		mid := r.Min.Y + (r.Dy()-thick)/2
		line := image.Rect(r.Min.X+30, mid, r.Max.X-4, mid+thick)
		draw.Draw(dst, line, image.NewUniform(sample), image.Point{}, draw.Over)
	}
}

func (p *painter) drawStatus(dst *image.RGBA, l layout, st paintState) {
	th := p.theme
	draw.Draw(dst, image.Rect(0, st.height-statusHeight, st.width, st.height), image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	for i, cb := range p.commands {
		cb.SetRect(l.commands[i])
		state := StateDefault
		switch {
		case i < len(st.enabled) && !st.enabled[i]:
			state = StateDisabled
		case commands[i].name == "drawing" && !st.drawing:
			state = StatePressed
		case st.hover == (hit{regionCommand, i}):
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

func (p *painter) drawMessage(dst *image.RGBA, st paintState) {
	th := p.theme
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	box := image.NewRGBA(image.Rect(0, 0, d.MeasureString(st.message).Ceil()+16, face.Height+16))
	draw.Draw(box, box.Bounds(), image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	strokeRect(box, box.Bounds(), th.ButtonBorder)
	drawLabel(box, st.message, 8, 8+face.Ascent, th.StatusText)

	shadowed, at := render.PopupShadow.Apply(box)
	origin := image.Pt((st.width-box.Bounds().Dx())/2, (st.height-box.Bounds().Dy())/2).Sub(at)
	draw.Draw(dst, shadowed.Bounds().Add(origin), shadowed, image.Point{}, draw.Over)
}
