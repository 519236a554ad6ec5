package theme

import (
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strings"

	"github.com/example/sketchpad/internal/palette"
)

// Theme defines the color palette for the application UI.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Main text color

	// Toolbar & status line
	ToolbarBackground color.RGBA
	StatusBackground  color.RGBA
	StatusText        color.RGBA

	// Tool Buttons
	ButtonBackground         color.RGBA
	ButtonBackgroundHover    color.RGBA
	ButtonBackgroundActive   color.RGBA // Selected mode, color or width
	ButtonBackgroundDisabled color.RGBA // Undo/redo with empty stacks
	ButtonText               color.RGBA
	ButtonTextDisabled       color.RGBA
	ButtonBorder             color.RGBA
	SwatchSelected           color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                     "Default",
		Background:               color.RGBA{220, 220, 220, 255},
		Foreground:               color.RGBA{0, 0, 0, 255},
		ToolbarBackground:        color.RGBA{220, 220, 220, 255},
		StatusBackground:         color.RGBA{200, 200, 200, 255},
		StatusText:               color.RGBA{0, 0, 0, 255},
		ButtonBackground:         color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover:    color.RGBA{180, 180, 180, 255},
		ButtonBackgroundActive:   color.RGBA{150, 150, 150, 255},
		ButtonBackgroundDisabled: color.RGBA{210, 210, 210, 255},
		ButtonText:               color.RGBA{0, 0, 0, 255},
		ButtonTextDisabled:       color.RGBA{140, 140, 140, 255},
		ButtonBorder:             color.RGBA{0, 0, 0, 255},
		SwatchSelected:           color.RGBA{255, 140, 0, 255},
		CheckerLight:             color.RGBA{220, 220, 220, 255},
		CheckerDark:              color.RGBA{192, 192, 192, 255},
	}
}

var rgbaType = reflect.TypeOf(color.RGBA{})

// ColorKeys lists the color fields in declaration order.
func ColorKeys() []string {
	typ := reflect.TypeOf(Theme{})
	keys := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if f := typ.Field(i); f.Type == rgbaType {
			keys = append(keys, f.Name)
		}
	}
	return keys
}

// Set assigns a single key. Keys match field names case-insensitively and
// unknown keys are ignored for forward compatibility. Values accept any CSS
// color.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != rgbaType {
			continue
		}
		col, err := palette.Parse(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}

// Write emits t in the theme file format.
func (t *Theme) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Name: %s\n", t.Name); err != nil {
		return err
	}
	val := reflect.ValueOf(t).Elem()
	for _, key := range ColorKeys() {
		col := val.FieldByName(key).Interface().(color.RGBA)
		if _, err := fmt.Fprintf(w, "%s: %s\n", key, palette.Hex(col)); err != nil {
			return err
		}
	}
	return nil
}
