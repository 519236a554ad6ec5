package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Fit resamples src to exactly w by h pixels. The result always has a zero
// origin. A nil src or empty size yields nil.
func Fit(src image.Image, w, h int) *image.RGBA {
	if src == nil || w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if sb.Empty() {
		return dst
	}
	if sb.Dx() == w && sb.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

// Flatten composites img over an opaque fill so formats without alpha keep
// erased areas readable.
func Flatten(img image.Image, fill color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

// Checkerboard fills rect of dst with squares of the given size.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	if size <= 0 {
		size = 8
	}
	rect = rect.Intersect(dst.Bounds())
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			src := lu
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 != 0 {
				src = du
			}
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

// Backdrop caches a checkerboard for repeated frames of the same size.
type Backdrop struct {
	Size        int
	Light, Dark color.Color
	cache       *image.RGBA
}

// Draw paints the checkerboard into rect of dst.
func (b *Backdrop) Draw(dst *image.RGBA, rect image.Rectangle) {
	if b.cache == nil || b.cache.Bounds().Size() != rect.Size() {
		b.cache = image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		Checkerboard(b.cache, b.cache.Bounds(), b.Size, b.Light, b.Dark)
	}
	draw.Draw(dst, rect, b.cache, image.Point{}, draw.Src)
}
