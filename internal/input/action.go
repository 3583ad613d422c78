package input

import (
	"fmt"
	"strings"
)

// Action is a logical input action produced by the keymap.
type Action uint8

const (
	// ActionNone means the event carries no logical action.
	ActionNone Action = iota

	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUpFast
	ActionMoveDownFast
	ActionMoveLeftFast
	ActionMoveRightFast

	ActionExitMode
	ActionNewline
	ActionBackspace
	ActionDeleteChar
	ActionLineStart
	ActionLineEnd
	ActionComplete

	ActionTogglePan
	ActionDrawMode
	ActionPenToggle
	ActionRedo
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionMoveUp:        "move_up",
	ActionMoveDown:      "move_down",
	ActionMoveLeft:      "move_left",
	ActionMoveRight:     "move_right",
	ActionMoveUpFast:    "move_up_fast",
	ActionMoveDownFast:  "move_down_fast",
	ActionMoveLeftFast:  "move_left_fast",
	ActionMoveRightFast: "move_right_fast",
	ActionExitMode:      "exit",
	ActionNewline:       "newline",
	ActionBackspace:     "backspace",
	ActionDeleteChar:    "delete",
	ActionLineStart:     "line_start",
	ActionLineEnd:       "line_end",
	ActionComplete:      "complete",
	ActionTogglePan:     "pan",
	ActionDrawMode:      "draw",
	ActionPenToggle:     "pen",
	ActionRedo:          "redo",
}

// String returns the configuration name of the action.
func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", a)
}

// ParseAction returns the action with the given configuration name.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, s := range actionNames {
		if s == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Delta returns the unit direction of a movement action and whether the
// action is a fast variant. ok is false for non-movement actions.
func (a Action) Delta() (dx, dy int, fast, ok bool) {
	switch a {
	case ActionMoveUp:
		return 0, -1, false, true
	case ActionMoveDown:
		return 0, 1, false, true
	case ActionMoveLeft:
		return -1, 0, false, true
	case ActionMoveRight:
		return 1, 0, false, true
	case ActionMoveUpFast:
		return 0, -1, true, true
	case ActionMoveDownFast:
		return 0, 1, true, true
	case ActionMoveLeftFast:
		return -1, 0, true, true
	case ActionMoveRightFast:
		return 1, 0, true, true
	}
	return 0, 0, false, false
}
