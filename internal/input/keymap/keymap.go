package keymap

import (
	"fmt"
	"sort"

	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/input/key"
)

// Binding maps one key specification to an action.
type Binding struct {
	Keys        string
	Action      input.Action
	Description string
}

// Keymap is a named list of bindings.
type Keymap struct {
	Name     string
	Bindings []Binding
}

// Translator turns key.Event values into input.Event values.
type Translator struct {
	nav  map[key.Event]input.Action
	text map[key.Event]input.Action
}

// NewTranslator builds a translator from a navigation and a text-entry
// keymap.
func NewTranslator(nav, text *Keymap) (*Translator, error) {
	t := &Translator{
		nav:  make(map[key.Event]input.Action),
		text: make(map[key.Event]input.Action),
	}
	if err := load(t.nav, nav); err != nil {
		return nil, err
	}
	if err := load(t.text, text); err != nil {
		return nil, err
	}
	return t, nil
}

// NewDefault returns a translator with the default bindings.
func NewDefault() *Translator {
	t, err := NewTranslator(DefaultNav(), DefaultText())
	if err != nil {
		panic(err)
	}
	return t
}

func load(dst map[key.Event]input.Action, km *Keymap) error {
	if km == nil {
		return nil
	}
	for _, b := range km.Bindings {
		ev, err := key.Parse(b.Keys)
		if err != nil {
			return fmt.Errorf("keymap %s: %w", km.Name, err)
		}
		dst[ev.Binding()] = b.Action
	}
	return nil
}

// Bind adds or replaces a navigation binding. Binding ActionNone removes
// the key so it is delivered as a character again.
func (t *Translator) Bind(spec string, a input.Action) error {
	ev, err := key.Parse(spec)
	if err != nil {
		return err
	}
	if a == input.ActionNone {
		delete(t.nav, ev.Binding())
		return nil
	}
	t.nav[ev.Binding()] = a
	return nil
}

// Apply applies user overrides of the form spec -> action name.
func (t *Translator) Apply(overrides map[string]string) error {
	specs := make([]string, 0, len(overrides))
	for spec := range overrides {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	for _, spec := range specs {
		a, err := input.ParseAction(overrides[spec])
		if err != nil {
			return fmt.Errorf("key %q: %w", spec, err)
		}
		if err := t.Bind(spec, a); err != nil {
			return fmt.Errorf("key %q: %w", spec, err)
		}
	}
	return nil
}

// Translate converts a raw key press. In text-entry modes printable runes
// are always literal characters; elsewhere a bound key yields its action
// with Char unset, keeping the raw key for single-key prompts.
func (t *Translator) Translate(ev key.Event, textEntry bool) input.Event {
	out := input.Event{Key: ev.Key, Rune: ev.Rune, Mods: ev.Modifiers}
	table := t.nav
	if textEntry {
		table = t.text
	}
	if a, ok := table[ev.Binding()]; ok {
		out.Action = a
		return out
	}
	if ev.IsPrintable() {
		out.Char = ev.Rune
	}
	return out
}

// Lookup returns the navigation action bound to spec.
func (t *Translator) Lookup(spec string) (input.Action, bool) {
	ev, err := key.Parse(spec)
	if err != nil {
		return input.ActionNone, false
	}
	a, ok := t.nav[ev.Binding()]
	return a, ok
}
