//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"image"
	"sync"
)

var (
	initOnce       sync.Once
	initErr        error
	errCGODisabled = errors.New("clipboard operations require cgo support")
)

func ensureInit() error {
	initOnce.Do(func() {
		if hasDisplay() {
			initErr = errCGODisabled
			return
		}
		initErr = errNoDisplay
	})
	return initErr
}

// WriteImage always fails: the clipboard backend needs cgo.
func WriteImage(image.Image) error {
	return ensureInit()
}

// ReadImage always fails: the clipboard backend needs cgo.
func ReadImage() (image.Image, error) {
	return nil, ensureInit()
}
