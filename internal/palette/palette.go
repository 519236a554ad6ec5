package palette

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/mazznoer/csscolorparser"
	"golang.org/x/image/colornames"
)

// Entry is a named palette color.
type Entry struct {
	Name  string
	Color color.RGBA
}

const (
	defaultColorIndex = 0
	defaultWidthIndex = 2
)

var (
	mu     sync.RWMutex
	colors = []Entry{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Olive", color.RGBA{128, 128, 0, 255}},
		{"Teal", color.RGBA{0, 128, 128, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Silver", color.RGBA{192, 192, 192, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
	widths = []float64{1, 2, 4, 8, 12, 20}
)

// DefaultColorIndex is the palette index selected at start up.
func DefaultColorIndex() int { return defaultColorIndex }

// DefaultWidthIndex is the width index selected at start up.
func DefaultWidthIndex() int { return defaultWidthIndex }

// Colors returns a copy of the palette.
func Colors() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Entry, len(colors))
	copy(out, colors)
	return out
}

// ColorAt returns the palette color at idx, clamped to the palette.
func ColorAt(idx int) color.RGBA {
	mu.RLock()
	defer mu.RUnlock()
	return colors[clamp(idx, len(colors))].Color
}

// Ensure adds col to the palette when missing and returns its index.
func Ensure(col color.RGBA, name string) int {
	mu.Lock()
	defer mu.Unlock()
	for i, e := range colors {
		if e.Color == col {
			if e.Name == "" && name != "" {
				colors[i].Name = name
			}
			return i
		}
	}
	if name == "" {
		name = Hex(col)
	}
	colors = append(colors, Entry{Name: name, Color: col})
	return len(colors) - 1
}

// Widths returns a copy of the selectable stroke widths.
func Widths() []float64 {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]float64, len(widths))
	copy(out, widths)
	return out
}

// WidthAt returns the width at idx, clamped to the list.
func WidthAt(idx int) float64 {
	mu.RLock()
	defer mu.RUnlock()
	return widths[clamp(idx, len(widths))]
}

// EnsureWidth adds w to the width list when missing and returns its index.
func EnsureWidth(w float64) int {
	if w <= 0 {
		w = 1
	}
	mu.Lock()
	defer mu.Unlock()
	for i, existing := range widths {
		if existing == w {
			return i
		}
	}
	widths = append(widths, w)
	sort.Float64s(widths)
	for i, existing := range widths {
		if existing == w {
			return i
		}
	}
	return 0
}

func clamp(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// Parse resolves a palette name, an SVG color name or any CSS color
// (#rgb, #rrggbbaa, rgb(), hsl(), ...).
func Parse(s string) (color.RGBA, error) {
	val := strings.TrimSpace(s)
	if val == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, e := range Colors() {
		if strings.EqualFold(e.Name, val) {
			return e.Color, nil
		}
	}
	if c, ok := colornames.Map[strings.ToLower(val)]; ok {
		return c, nil
	}
	c, err := csscolorparser.Parse(val)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b, a := c.RGBA255()
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when not opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
