// Package imageio loads background images and encodes snapshots.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

var (
	// ErrUnsupportedFormat is returned for formats that cannot be written.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")
	// ErrEmptyData is returned when decoding zero bytes.
	ErrEmptyData = errors.New("imageio: empty data")
)

// Formats lists the writable formats.
func Formats() []Format { return []Format{PNG, JPEG, BMP, TIFF} }

// ParseFormat accepts a format name or a file extension with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext returns the preferred file extension including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Opaque reports whether the format drops the alpha channel.
func (f Format) Opaque() bool { return f == JPEG }

// FormatForPath picks the format from path's extension, falling back to def
// when the extension is missing or unknown.
func FormatForPath(path string, def Format) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return def
}

// Decode reads any registered format: png, jpeg, gif, bmp, tiff or webp.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	return img, format, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	img, _, err := Decode(bytes.NewReader(data))
	return img, err
}

// Load decodes the image stored at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Encode writes img to w. quality only applies to JPEG and is clamped to
// 1..100.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		if quality < 1 {
			quality = 1
		}
		if quality > 100 {
			quality = 100
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", f, err)
	}
	return nil
}

// Save encodes img into path, creating parent directories as needed. The
// file is written under a temporary name and renamed into place.
func Save(path string, img image.Image, f Format, quality int) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("imageio: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sketchpad-*"+f.Ext())
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	tmpName := tmp.Name()
	if err := Encode(tmp, img, f, quality); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("imageio: close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("imageio: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("imageio: rename: %w", err)
	}
	return nil
}
