package joystick

import (
	"testing"

	"github.com/dshills/gridstorm/internal/input"
)

func TestMapper(t *testing.T) {
	m := NewMapper(1000)
	steps := []struct {
		name string
		ev   Event
		want input.Action
		ok   bool
	}{
		{"init ignored", Event{Kind: KindAxis, Number: 0, Value: -5000, Init: true}, input.ActionNone, false},
		{"center", Event{Kind: KindAxis, Number: 0, Value: 0}, input.ActionNone, false},
		{"left", Event{Kind: KindAxis, Number: 0, Value: -5000}, input.ActionMoveLeft, true},
		{"held left", Event{Kind: KindAxis, Number: 0, Value: -6000}, input.ActionNone, false},
		{"inside deadzone", Event{Kind: KindAxis, Number: 0, Value: 900}, input.ActionNone, false},
		{"right", Event{Kind: KindAxis, Number: 0, Value: 32767}, input.ActionMoveRight, true},
		{"straight to left", Event{Kind: KindAxis, Number: 0, Value: -32767}, input.ActionMoveLeft, true},
		{"up", Event{Kind: KindAxis, Number: 1, Value: -20000}, input.ActionMoveUp, true},
		{"down", Event{Kind: KindAxis, Number: 1, Value: 20000}, input.ActionMoveDown, true},
		{"dpad right", Event{Kind: KindAxis, Number: 6, Value: 32767}, input.ActionMoveRight, true},
		{"pen press", Event{Kind: KindButton, Number: 0, Value: 1}, input.ActionPenToggle, true},
		{"pen release", Event{Kind: KindButton, Number: 0, Value: 0}, input.ActionNone, false},
		{"exit press", Event{Kind: KindButton, Number: 1, Value: 1}, input.ActionExitMode, true},
		{"other button", Event{Kind: KindButton, Number: 5, Value: 1}, input.ActionNone, false},
		{"init button", Event{Kind: KindButton, Number: 0, Value: 1, Init: true}, input.ActionNone, false},
	}
	for _, s := range steps {
		got, ok := m.Map(s.ev)
		if got != s.want || ok != s.ok {
			t.Errorf("%s: Map = %v, %v; want %v, %v", s.name, got, ok, s.want, s.ok)
		}
	}
}

func TestMapperReset(t *testing.T) {
	m := NewMapper(0)
	if m.Deadzone != DefaultDeadzone {
		t.Errorf("Deadzone = %d", m.Deadzone)
	}
	left := Event{Kind: KindAxis, Number: 0, Value: -20000}
	m.Map(left)
	if _, ok := m.Map(left); ok {
		t.Fatal("held axis fired twice")
	}
	m.Reset()
	if a, ok := m.Map(left); !ok || a != input.ActionMoveLeft {
		t.Errorf("after Reset Map = %v, %v", a, ok)
	}
}
