package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchpad/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
	buttonStates
)

// Button represents a toolbar or status bar element.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [buttonStates]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if state < 0 || state >= buttonStates {
		state = StateDefault
	}
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [buttonStates]*image.RGBA{}
	}
}

// LabelButton is a flat button with a text label.
type LabelButton struct {
	label  string
	rect   image.Rectangle
	theme  *theme.Theme
	border bool
}

func (b *LabelButton) Draw(dst *image.RGBA, state ButtonState) {
	th := b.theme
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundActive
	case StateDisabled:
		bg, fg = th.ButtonBackgroundDisabled, th.ButtonTextDisabled
	}
	draw.Draw(dst, b.rect, image.NewUniform(bg), image.Point{}, draw.Src)
	if b.border {
		strokeRect(dst, b.rect, th.ButtonBorder)
	}
	baseline := b.rect.Min.Y + (b.rect.Dy()+basicfont.Face7x13.Ascent)/2 - 1
	drawLabel(dst, b.label, b.rect.Min.X+3, baseline, fg)
}

func (b *LabelButton) Rect() image.Rectangle { return b.rect }

func (b *LabelButton) SetRect(r image.Rectangle) { b.rect = r }

func drawLabel(dst *image.RGBA, s string, x, baseline int, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13,
		Dot: fixed.P(x, baseline)}
	d.DrawString(s)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge, u, image.Point{}, draw.Src)
	}
}
