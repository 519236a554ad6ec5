package render

import (
	"image"
	"image/color"
	"testing"
)

func TestFitScalesToRequestedSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 30, 20))
	for y := 10; y < 20; y++ {
		for x := 10; x < 30; x++ {
			src.Set(x, y, color.RGBA{0, 200, 0, 255})
		}
	}
	out := Fit(src, 40, 40)
	if out.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if c := out.RGBAAt(20, 20); c.G < 150 || c.A != 255 {
		t.Fatalf("center = %v", c)
	}
	same := Fit(src, 20, 10)
	if same.RGBAAt(0, 0) != (color.RGBA{0, 200, 0, 255}) {
		t.Fatalf("copy = %v", same.RGBAAt(0, 0))
	}
	if Fit(nil, 4, 4) != nil || Fit(src, 0, 4) != nil {
		t.Fatal("invalid input should yield nil")
	}
}

func TestFlattenFillsTransparency(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 7))
	img.Set(5, 5, color.RGBA{255, 0, 0, 255})
	out := Flatten(img, color.RGBA{0, 0, 255, 255})
	if out.RGBAAt(0, 0) != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("opaque pixel = %v", out.RGBAAt(0, 0))
	}
	if out.RGBAAt(1, 1) != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("transparent pixel = %v", out.RGBAAt(1, 1))
	}
}

func TestBackdropAlternatesCells(t *testing.T) {
	light := color.RGBA{240, 240, 240, 255}
	dark := color.RGBA{100, 100, 100, 255}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	b := &Backdrop{Size: 4, Light: light, Dark: dark}
	b.Draw(dst, image.Rect(8, 8, 24, 24))
	if dst.RGBAAt(8, 8) != light || dst.RGBAAt(12, 8) != dark || dst.RGBAAt(12, 12) != light {
		t.Fatalf("cells = %v %v %v", dst.RGBAAt(8, 8), dst.RGBAAt(12, 8), dst.RGBAAt(12, 12))
	}
	if dst.RGBAAt(2, 2).A != 0 {
		t.Fatal("backdrop painted outside its rect")
	}
}
