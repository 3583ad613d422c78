package key

import (
	"strings"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRuneEvent creates a character key event.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a special key event.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e carries a character.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsPrintable reports whether e is a printable character without
// Ctrl, Alt or Meta held. Shift is part of the character itself.
func (e Event) IsPrintable() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.Has(ModCtrl|ModAlt|ModMeta)
}

// Binding returns the lookup form of e used by keymaps: character keys
// drop Shift since it is already reflected in the rune.
func (e Event) Binding() Event {
	b := Event{Key: e.Key, Rune: e.Rune, Modifiers: e.Modifiers}
	if b.Key == KeyRune {
		b.Modifiers = b.Modifiers.Without(ModShift)
		if b.Modifiers.Has(ModCtrl) {
			b.Rune = unicode.ToLower(b.Rune)
		}
	}
	return b
}

// String returns a spec string that Parse accepts, e.g. "Ctrl+d" or "Shift+Left".
func (e Event) String() string {
	var name string
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		name = "Space"
	case e.Key == KeyRune:
		name = string(e.Rune)
	default:
		name = e.Key.String()
	}
	mods := e.Modifiers
	if e.Key == KeyRune {
		mods = mods.Without(ModShift)
	}
	if mods == ModNone {
		return name
	}
	return strings.Join([]string{mods.String(), name}, "+")
}
