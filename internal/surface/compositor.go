package surface

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/sketchpad/internal/render"
)

// DefaultBackground is the solid plane used when no image is set.
var DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Compositor owns the composed raster: the background plane plus every
// drawn action. Rasterised pixels cannot be subtracted, so anything other
// than appending an action requires a full recomposite.
type Compositor struct {
	width, height int
	bgColor       color.RGBA
	bgSource      image.Image
	bg            *image.RGBA
	composed      *image.RGBA
}

// NewCompositor returns a compositor with no raster until the first Resize.
func NewCompositor(bg color.RGBA) *Compositor {
	return &Compositor{bgColor: bg}
}

// Size returns the raster size in pixels.
func (c *Compositor) Size() (w, h int) { return c.width, c.height }

// Ready reports whether a raster has been allocated.
func (c *Compositor) Ready() bool { return c.composed != nil }

// Resize reallocates the raster. Sizes below one pixel are clamped. It
// reports whether the size changed; callers replay the history when it did.
func (c *Compositor) Resize(w, h int) bool {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if c.composed != nil && w == c.width && h == c.height {
		return false
	}
	c.width, c.height = w, h
	c.composed = image.NewRGBA(image.Rect(0, 0, w, h))
	c.bg = render.Fit(c.bgSource, w, h)
	return true
}

// SetBackground stores img as the background plane, resampled to the current
// size. A nil img selects the solid color plane.
func (c *Compositor) SetBackground(img image.Image) {
	c.bgSource = img
	c.bg = nil
	if c.composed != nil {
		c.bg = render.Fit(img, c.width, c.height)
	}
}

// SetBackgroundColor changes the solid plane drawn beneath everything.
func (c *Compositor) SetBackgroundColor(col color.RGBA) { c.bgColor = col }

// BackgroundColor returns the solid plane color.
func (c *Compositor) BackgroundColor() color.RGBA { return c.bgColor }

// HasBackgroundImage reports whether an image plane is set.
func (c *Compositor) HasBackgroundImage() bool { return c.bgSource != nil }

// FullRecomposite repaints the background and then every action in order.
func (c *Compositor) FullRecomposite(actions []Action) {
	if c.composed == nil {
		return
	}
	c.paintBackground(c.composed)
	for _, a := range actions {
		a.Render(c.composed)
	}
}

// DrawIncremental paints a single new action over the current raster.
func (c *Compositor) DrawIncremental(a Action) {
	if c.composed == nil || a == nil {
		return
	}
	a.Render(c.composed)
}

// Composed exposes the raster itself. Callers must not modify it.
func (c *Compositor) Composed() *image.RGBA {
	if c.composed == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return c.composed
}

// Snapshot returns a copy of the composed raster.
func (c *Compositor) Snapshot() *image.RGBA {
	if c.composed == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	out := image.NewRGBA(c.composed.Bounds())
	copy(out.Pix, c.composed.Pix)
	return out
}

// Preview returns the composed raster with in drawn on top, leaving the
// composed raster untouched. With no action it returns a snapshot.
func (c *Compositor) Preview(in Action) *image.RGBA {
	out := c.Snapshot()
	if in != nil {
		in.Render(out)
	}
	return out
}

func (c *Compositor) paintBackground(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.bgColor), image.Point{}, draw.Src)
	if c.bg != nil {
		draw.Draw(dst, dst.Bounds(), c.bg, image.Point{}, draw.Over)
	}
}
