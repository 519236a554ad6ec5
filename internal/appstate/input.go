package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/sketchpad/internal/surface"
)

// pointer turns shiny mouse events into surface pointer phases. Only left
// button gestures that start on the canvas are forwarded; once started, the
// gesture follows the mouse anywhere in the window.
type pointer struct {
	pressed bool
}

func (p *pointer) phase(e mouse.Event, onCanvas bool) (surface.Phase, bool) {
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if !onCanvas {
			return 0, false
		}
		p.pressed = true
		return surface.PhaseDown, true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if !p.pressed {
			return 0, false
		}
		p.pressed = false
		return surface.PhaseUp, true
	case e.Direction == mouse.DirNone && p.pressed:
		return surface.PhaseMove, true
	}
	return 0, false
}

// cancel ends a gesture and reports whether one was in progress.
func (p *pointer) cancel() bool {
	was := p.pressed
	p.pressed = false
	return was
}

// KeyShortcut identifies a key press bound to an action. Either Rune or Code
// is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ctrl binds both the letter and its key code so drivers that report either
// one match.
func ctrl(r rune, code key.Code, extra key.Modifiers) shortcutList {
	mods := key.ModControl | extra
	return shortcutList{{Rune: r, Modifiers: mods}, {Code: code, Modifiers: mods}}
}

type keymap map[KeyShortcut]string

func (k keymap) lookup(e key.Event) (string, bool) {
	if e.Rune > 0 {
		if name, ok := k[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}]; ok {
			return name, true
		}
	}
	name, ok := k[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return name, ok
}
