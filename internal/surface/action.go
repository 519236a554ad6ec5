package surface

import (
	"image"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
)

// Action is a single drawing primitive. The set of implementations is closed:
// *Stroke, *Circle and *Rectangle.
type Action interface {
	ID() uuid.UUID
	Style() Style
	// Bounds is the pixel area the action can touch, including line width.
	Bounds() image.Rectangle
	// Render composites the action onto dst using its style.
	Render(dst *image.RGBA)

	trace(dc *gg.Context) (fill bool)
	extend(p Point)
}

type actionBase struct {
	id    uuid.UUID
	style Style
}

func newBase(style Style) actionBase {
	return actionBase{id: uuid.New(), style: style}
}

func (b *actionBase) ID() uuid.UUID { return b.id }

func (b *actionBase) Style() Style { return b.style }

func (b *actionBase) pad() int {
	return int(math.Ceil(b.style.lineWidth()/2)) + 2
}

// Stroke is a free-form polyline. Points keep insertion order.
type Stroke struct {
	actionBase
	points []Point
}

// NewStroke returns a stroke through pts drawn with style.
func NewStroke(style Style, pts ...Point) *Stroke {
	s := &Stroke{actionBase: newBase(style)}
	s.points = append(s.points, pts...)
	return s
}

// Points returns a copy of the stroke's points.
func (s *Stroke) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Stroke) Bounds() image.Rectangle {
	if len(s.points) == 0 {
		return image.Rectangle{}
	}
	minX, minY := s.points[0].X, s.points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return padRect(minX, minY, maxX, maxY, s.pad())
}

func (s *Stroke) Render(dst *image.RGBA) { composite(dst, s) }

func (s *Stroke) trace(dc *gg.Context) bool {
	if len(s.points) == 1 {
		p := s.points[0]
		dc.DrawCircle(p.X, p.Y, s.style.lineWidth()/2)
		return true
	}
	for i, p := range s.points {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
	return false
}

func (s *Stroke) extend(p Point) { s.points = append(s.points, p) }

// Circle is defined by the diameter dragged from Start to End.
type Circle struct {
	actionBase
	start, end Point
}

// NewCircle returns a circle whose diameter spans start to end.
func NewCircle(style Style, start, end Point) *Circle {
	return &Circle{actionBase: newBase(style), start: start, end: end}
}

// Center is the midpoint of the dragged diameter.
func (c *Circle) Center() Point {
	return Point{X: (c.start.X + c.end.X) / 2, Y: (c.start.Y + c.end.Y) / 2}
}

// Radius is half the dragged distance.
func (c *Circle) Radius() float64 { return c.start.Dist(c.end) / 2 }

func (c *Circle) Bounds() image.Rectangle {
	ctr, r := c.Center(), c.Radius()
	return padRect(ctr.X-r, ctr.Y-r, ctr.X+r, ctr.Y+r, c.pad())
}

func (c *Circle) Render(dst *image.RGBA) { composite(dst, c) }

func (c *Circle) trace(dc *gg.Context) bool {
	ctr := c.Center()
	dc.DrawCircle(ctr.X, ctr.Y, c.Radius())
	return false
}

func (c *Circle) extend(p Point) { c.end = p }

// Rectangle is an axis aligned rectangle spanned by two corners.
type Rectangle struct {
	actionBase
	start, end Point
}

// NewRectangle returns a rectangle with opposite corners start and end.
func NewRectangle(style Style, start, end Point) *Rectangle {
	return &Rectangle{actionBase: newBase(style), start: start, end: end}
}

// Normalized returns the edges regardless of which corner was dragged first.
func (r *Rectangle) Normalized() (left, top, right, bottom float64) {
	return math.Min(r.start.X, r.end.X), math.Min(r.start.Y, r.end.Y),
		math.Max(r.start.X, r.end.X), math.Max(r.start.Y, r.end.Y)
}

func (r *Rectangle) Bounds() image.Rectangle {
	l, t, rt, b := r.Normalized()
	return padRect(l, t, rt, b, r.pad())
}

func (r *Rectangle) Render(dst *image.RGBA) { composite(dst, r) }

func (r *Rectangle) trace(dc *gg.Context) bool {
	l, t, rt, b := r.Normalized()
	dc.DrawRectangle(l, t, rt-l, b-t)
	return false
}

func (r *Rectangle) extend(p Point) { r.end = p }

func padRect(minX, minY, maxX, maxY float64, pad int) image.Rectangle {
	return image.Rect(
		int(math.Floor(minX))-pad, int(math.Floor(minY))-pad,
		int(math.Ceil(maxX))+pad, int(math.Ceil(maxY))+pad,
	)
}

// coverage rasterises the action's outline into an alpha mask covering r.
func coverage(a Action, r image.Rectangle) *image.Alpha {
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.Translate(-float64(r.Min.X), -float64(r.Min.Y))
	dc.SetLineWidth(a.Style().lineWidth())
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetRGBA(0, 0, 0, 1)
	if a.trace(dc) {
		dc.Fill()
	} else {
		dc.Stroke()
	}
	return dc.AsMask()
}

func composite(dst *image.RGBA, a Action) {
	r := a.Bounds().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	mask := coverage(a, r)
	st := a.Style()
	if st.Compositing == Erase {
		clearMasked(dst, r, mask)
		return
	}
	draw.DrawMask(dst, r, image.NewUniform(st.Color), image.Point{}, mask, image.Point{}, draw.Over)
}

// clearMasked scales dst by the inverse of mask (destination-out). image/draw
// has no such operator: Src through a mask also wipes uncovered pixels.
func clearMasked(dst *image.RGBA, r image.Rectangle, mask *image.Alpha) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := uint32(mask.AlphaAt(x-r.Min.X, y-r.Min.Y).A)
			if m == 0 {
				continue
			}
			keep := 255 - m
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			for j := range px {
				px[j] = uint8(uint32(px[j]) * keep / 255)
			}
		}
	}
}
