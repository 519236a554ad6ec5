// Package clipboard moves drawings to and from the system clipboard as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/example/sketchpad/internal/imageio"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrNoImage is returned when the clipboard holds no decodable image.
	ErrNoImage = errors.New("clipboard does not contain image data")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("clipboard: nothing to copy")
	}
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, imageio.PNG, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, err := imageio.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("clipboard: %w", err)
	}
	return img, nil
}
