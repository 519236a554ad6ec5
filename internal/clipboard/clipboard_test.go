package clipboard

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPNGHelpers(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(2, 1, color.RGBA{9, 8, 7, 255})
	data, err := encodePNG(src)
	if err != nil {
		t.Fatal(err)
	}
	img, err := decodeImage(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.RGBAModel.Convert(img.At(2, 1)); got != (color.RGBA{9, 8, 7, 255}) {
		t.Fatalf("pixel = %v", got)
	}
	if _, err := decodeImage(nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("empty err = %v", err)
	}
	if _, err := encodePNG(nil); err == nil {
		t.Fatal("nil image should fail")
	}
}
