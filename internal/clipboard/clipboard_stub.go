//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
)

var errUnsupported = fmt.Errorf("clipboard image operations are not supported on this platform")

func WriteImage(img image.Image) error {
	if _, err := encodePNG(img); err != nil {
		return err
	}
	return errUnsupported
}

func ReadImage() (image.Image, error) {
	return nil, errUnsupported
}
