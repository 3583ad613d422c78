package joystick

import (
	"github.com/dshills/gridstorm/internal/input"
)

// DefaultDeadzone is the axis magnitude below which a stick counts as
// centered.
const DefaultDeadzone = 8000

// Mapper turns joystick events into input actions.
//
// Even-numbered axes move horizontally and odd-numbered axes vertically,
// which covers both analog sticks and most d-pads. Axis actions fire once
// when a stick leaves the center, not while it is held. Button 0 toggles
// the pen and button 1 leaves the current mode.
type Mapper struct {
	Deadzone int16

	axes map[uint8]int
}

// NewMapper creates a mapper with the given deadzone. Non-positive values
// select DefaultDeadzone.
func NewMapper(deadzone int) *Mapper {
	if deadzone <= 0 || deadzone > 32767 {
		deadzone = DefaultDeadzone
	}
	return &Mapper{Deadzone: int16(deadzone), axes: make(map[uint8]int)}
}

// Map returns the action for ev, if any.
func (m *Mapper) Map(ev Event) (input.Action, bool) {
	switch ev.Kind {
	case KindAxis:
		dir := m.direction(ev.Value)
		prev := m.axes[ev.Number]
		m.axes[ev.Number] = dir
		if ev.Init || dir == 0 || dir == prev {
			return input.ActionNone, false
		}
		return axisAction(ev.Number, dir), true
	case KindButton:
		if ev.Init || ev.Value == 0 {
			return input.ActionNone, false
		}
		switch ev.Number {
		case 0:
			return input.ActionPenToggle, true
		case 1:
			return input.ActionExitMode, true
		}
	}
	return input.ActionNone, false
}

// Reset forgets axis positions, e.g. after a reconnect.
func (m *Mapper) Reset() {
	clear(m.axes)
}

func (m *Mapper) direction(v int16) int {
	switch {
	case v < -m.Deadzone:
		return -1
	case v > m.Deadzone:
		return 1
	}
	return 0
}

func axisAction(axis uint8, dir int) input.Action {
	if axis%2 == 0 {
		if dir < 0 {
			return input.ActionMoveLeft
		}
		return input.ActionMoveRight
	}
	if dir < 0 {
		return input.ActionMoveUp
	}
	return input.ActionMoveDown
}
