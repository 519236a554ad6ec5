package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow describes a blurred drop shadow cast by the opaque parts of an image.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// PopupShadow is the shadow used under transient overlays.
var PopupShadow = Shadow{Radius: 6, Offset: image.Pt(4, 4), Opacity: 0.45}

// Apply returns img composited over its shadow on a zero based canvas large
// enough for both, plus where img's top-left corner landed on that canvas.
func (s Shadow) Apply(img *image.RGBA) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || s.Opacity <= 0 {
		return img, image.Point{}
	}
	opacity := s.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := s.Radius
	if radius < 0 {
		radius = 0
	}

	src := img.Bounds()
	padded := src.Inset(-radius)
	cast := padded.Add(s.Offset)
	whole := src.Union(cast)

	mask := image.NewAlpha(image.Rect(0, 0, padded.Dx(), padded.Dy()))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetAlpha(x-padded.Min.X, y-padded.Min.Y, color.Alpha{A: a})
			}
		}
	}
	mask = boxBlur(mask, radius)

	out := image.NewRGBA(whole.Sub(whole.Min))
	tint := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(out, mask.Bounds().Add(cast.Min.Sub(whole.Min)), tint, image.Point{}, mask, image.Point{}, draw.Over)
	at := src.Min.Sub(whole.Min)
	draw.Draw(out, src.Sub(whole.Min), img, src.Min, draw.Over)
	return out, at
}

// boxBlur runs a separable running-sum blur over a zero based mask.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	blurLine(w, radius, func(i int) int { return int(src.Pix[i]) }, func(i, v int) { tmp.Pix[i] = uint8(v) }, h, src.Stride, 1)
	blurLine(h, radius, func(i int) int { return int(tmp.Pix[i]) }, func(i, v int) { out.Pix[i] = uint8(v) }, w, 1, tmp.Stride)
	return out
}

// blurLine averages lines of n samples. Line k starts at k*lineStep and
// consecutive samples are step apart.
func blurLine(n, radius int, get func(int) int, set func(int, int), lines, lineStep, step int) {
	sums := make([]int, n+1)
	for k := 0; k < lines; k++ {
		base := k * lineStep
		for i := 0; i < n; i++ {
			sums[i+1] = sums[i] + get(base+i*step)
		}
		for i := 0; i < n; i++ {
			lo, hi := max(i-radius, 0), min(i+radius, n-1)
			set(base+i*step, (sums[hi+1]-sums[lo])/(hi-lo+1))
		}
	}
}
