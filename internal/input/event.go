package input

import (
	"github.com/dshills/gridstorm/internal/input/key"
)

// Event is one normalized input event.
//
// At most one of Action and Char is meaningful for a given mode. When a
// key is bound to an action, Char is left unset but the raw key is kept
// so single-key prompts (bookmark keys) can still read it.
type Event struct {
	Action Action
	Char   rune
	Key    key.Key
	Rune   rune
	Mods   key.Modifier
}

// CharEvent returns an event carrying a literal character.
func CharEvent(r rune) Event {
	return Event{Char: r, Key: key.KeyRune, Rune: r}
}

// ActionEvent returns an event carrying only a logical action.
func ActionEvent(a Action) Event {
	return Event{Action: a}
}

// AlnumKey extracts a lowercase bookmark key from the event: the literal
// character first, then the raw key rune. ok is false when neither is in
// a-z or 0-9.
func (e Event) AlnumKey() (rune, bool) {
	if r, ok := alnum(e.Char); ok {
		return r, true
	}
	if e.Key == key.KeyRune {
		return alnum(e.Rune)
	}
	return 0, false
}

// NormalizeKey lowercases r and reports whether it is a valid single
// alphanumeric key.
func NormalizeKey(r rune) (rune, bool) {
	return alnum(r)
}

func alnum(r rune) (rune, bool) {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return r, true
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A'), true
	}
	return 0, false
}
