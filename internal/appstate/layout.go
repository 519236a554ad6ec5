package appstate

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/sketchpad/internal/surface"
)

const (
	headerHeight = 24
	statusHeight = 24
	rowHeight    = 24
	swatchSize   = 16
	swatchPitch  = 18
	widthHeight  = 16
	gap          = 4
)

// toolbarWidth grows at start up so the title and every mode label fit.
var toolbarWidth = 64

const title = "Sketchpad"

var modeLabels = map[surface.Mode]string{
	surface.ModePencil:    "P:Pencil",
	surface.ModeCircle:    "C:Circle",
	surface.ModeRectangle: "R:Rect",
	surface.ModeEraser:    "E:Eraser",
}

func modeLabel(m surface.Mode) string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return m.String()
}

// command is an entry in the status bar.
type command struct {
	name  string
	label string
}

var commands = []command{
	{"undo", "^Z:undo"},
	{"redo", "^Y:redo"},
	{"clear", "Del:clear"},
	{"save", "^S:save"},
	{"copy", "^C:copy"},
	{"paste", "^V:paste bg"},
	{"capture", "^N:capture bg"},
	{"drawing", "D:drawing"},
	{"quit", "Q:quit"},
}

func fitToolbar() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(title).Ceil() + 8
	for _, m := range surface.Modes() {
		if lw := d.MeasureString(modeLabel(m)).Ceil() + 8; lw > w {
			w = lw
		}
	}
	if w > toolbarWidth {
		toolbarWidth = w
	}
}

// canvasRect is the window area the surface raster maps onto, one to one.
func canvasRect(winW, winH int) image.Rectangle {
	r := image.Rect(toolbarWidth, headerHeight, winW, winH-statusHeight)
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	return r
}

// windowSize returns the window needed to show a canvas of w by h pixels
// alongside the full toolbar.
func windowSize(w, h, colors, widths int) (int, int) {
	winW := w + toolbarWidth
	winH := h + headerHeight + statusHeight
	l := newLayout(winW, winH, colors, widths)
	if n := len(l.widths); n > 0 {
		if need := l.widths[n-1].Max.Y + gap + statusHeight; need > winH {
			winH = need
		}
	}
	return winW, winH
}

type region int

const (
	regionNone region = iota
	regionCanvas
	regionMode
	regionSwatch
	regionWidth
	regionCommand
)

type hit struct {
	region region
	index  int
}

var noHit = hit{regionNone, -1}

type layout struct {
	canvas   image.Rectangle
	modes    []image.Rectangle
	swatches []image.Rectangle
	widths   []image.Rectangle
	commands []image.Rectangle
}

// newLayout places every widget for a window of the given size. Both the
// event loop and the painter derive their geometry from it.
func newLayout(winW, winH, colors, widths int) layout {
	l := layout{canvas: canvasRect(winW, winH)}
	y := headerHeight
	for range surface.Modes() {
		l.modes = append(l.modes, image.Rect(0, y, toolbarWidth, y+rowHeight))
		y += rowHeight
	}

	y += gap
	cols := (toolbarWidth - gap) / swatchPitch
	if cols < 1 {
		cols = 1
	}
	for i := 0; i < colors; i++ {
		x := gap + (i%cols)*swatchPitch
		sy := y + (i/cols)*swatchPitch
		l.swatches = append(l.swatches, image.Rect(x, sy, x+swatchSize, sy+swatchSize))
	}
	y += (colors + cols - 1) / cols * swatchPitch

	y += gap
	for i := 0; i < widths; i++ {
		l.widths = append(l.widths, image.Rect(0, y, toolbarWidth, y+widthHeight))
		y += widthHeight
	}

	meas := &font.Drawer{Face: basicfont.Face7x13}
	x := gap
	top := winH - statusHeight
	for _, c := range commands {
		w := meas.MeasureString(c.label).Ceil()
		r := image.Rect(x, top+3, x+w+4, top+statusHeight-3)
		l.commands = append(l.commands, r)
		x = r.Max.X + 8
	}
	return l
}

func (l layout) hitTest(p image.Point) hit {
	for i, r := range l.commands {
		if p.In(r) {
			return hit{regionCommand, i}
		}
	}
	if p.In(l.canvas) {
		return hit{regionCanvas, -1}
	}
	for _, g := range []struct {
		region region
		rects  []image.Rectangle
	}{
		{regionMode, l.modes},
		{regionSwatch, l.swatches},
		{regionWidth, l.widths},
	} {
		for i, r := range g.rects {
			if p.In(r) {
				return hit{g.region, i}
			}
		}
	}
	return noHit
}

// canvasPoint converts window coordinates to surface coordinates.
func (l layout) canvasPoint(x, y float32) surface.Point {
	return surface.Pt(float64(x)-float64(l.canvas.Min.X), float64(y)-float64(l.canvas.Min.Y))
}
