// Package surface implements the drawing surface engine: the actions a user
// paints, the tool state machine that builds them from pointer events, the
// undo/redo history and the compositor that keeps the raster up to date.
//
// A Surface is owned by a single event loop and is not safe for concurrent
// use.
package surface

import (
	"fmt"
	"image/color"
	"math"
)

// Point is a coordinate in surface-local pixels.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Compositing controls how an action's pixels combine with the raster below.
type Compositing int

const (
	// Normal paints the style color over existing pixels.
	Normal Compositing = iota
	// Erase clears the touched pixels to transparent.
	Erase
)

func (c Compositing) String() string {
	switch c {
	case Normal:
		return "normal"
	case Erase:
		return "erase"
	default:
		return fmt.Sprintf("compositing(%d)", int(c))
	}
}

const (
	defaultWidth = 4
	minWidth     = 0.5
	// MaxWidth is the widest line an action renders with.
	MaxWidth = 512
)

// Style is captured by value when an action starts.
type Style struct {
	Color       color.RGBA
	Width       float64
	Compositing Compositing
}

// DefaultStyle is a 4px black pen.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{A: 255}, Width: defaultWidth}
}

// ValidWidth reports whether w is accepted by SetWidth.
func ValidWidth(w float64) bool {
	return w > 0 && w <= MaxWidth
}

func (s Style) lineWidth() float64 {
	switch {
	case math.IsNaN(s.Width) || s.Width < minWidth:
		return minWidth
	case s.Width > MaxWidth:
		return MaxWidth
	}
	return s.Width
}
