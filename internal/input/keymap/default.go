package keymap

import "github.com/dshills/gridstorm/internal/input"

func movement() []Binding {
	return []Binding{
		{Keys: "Up", Action: input.ActionMoveUp, Description: "Move up"},
		{Keys: "Down", Action: input.ActionMoveDown, Description: "Move down"},
		{Keys: "Left", Action: input.ActionMoveLeft, Description: "Move left"},
		{Keys: "Right", Action: input.ActionMoveRight, Description: "Move right"},
		{Keys: "Shift+Up", Action: input.ActionMoveUpFast, Description: "Move up fast"},
		{Keys: "Shift+Down", Action: input.ActionMoveDownFast, Description: "Move down fast"},
		{Keys: "Shift+Left", Action: input.ActionMoveLeftFast, Description: "Move left fast"},
		{Keys: "Shift+Right", Action: input.ActionMoveRightFast, Description: "Move right fast"},
		{Keys: "Esc", Action: input.ActionExitMode, Description: "Leave mode"},
		{Keys: "Enter", Action: input.ActionNewline, Description: "Newline / submit"},
		{Keys: "Backspace", Action: input.ActionBackspace, Description: "Delete backward"},
		{Keys: "Delete", Action: input.ActionDeleteChar, Description: "Delete under cursor"},
		{Keys: "Home", Action: input.ActionLineStart, Description: "Line start"},
		{Keys: "End", Action: input.ActionLineEnd, Description: "Line end"},
	}
}

// DefaultNav returns the bindings for NAV, PAN, VISUAL, DRAW and the
// bookmark prompts.
func DefaultNav() *Keymap {
	return &Keymap{
		Name: "default-nav",
		Bindings: append(movement(),
			Binding{Keys: "h", Action: input.ActionMoveLeft, Description: "Move left"},
			Binding{Keys: "j", Action: input.ActionMoveDown, Description: "Move down"},
			Binding{Keys: "k", Action: input.ActionMoveUp, Description: "Move up"},
			Binding{Keys: "l", Action: input.ActionMoveRight, Description: "Move right"},
			Binding{Keys: "H", Action: input.ActionMoveLeftFast, Description: "Move left fast"},
			Binding{Keys: "J", Action: input.ActionMoveDownFast, Description: "Move down fast"},
			Binding{Keys: "K", Action: input.ActionMoveUpFast, Description: "Move up fast"},
			Binding{Keys: "L", Action: input.ActionMoveRightFast, Description: "Move right fast"},
			Binding{Keys: "p", Action: input.ActionTogglePan, Description: "Toggle pan mode"},
			Binding{Keys: "Ctrl+p", Action: input.ActionTogglePan, Description: "Toggle pan mode"},
			Binding{Keys: "Ctrl+d", Action: input.ActionDrawMode, Description: "Draw mode"},
			Binding{Keys: "Ctrl+r", Action: input.ActionRedo, Description: "Redo"},
		),
	}
}

// DefaultText returns the bindings for EDIT and COMMAND.
func DefaultText() *Keymap {
	return &Keymap{
		Name: "default-text",
		Bindings: append(movement(),
			Binding{Keys: "Tab", Action: input.ActionComplete, Description: "Complete command"},
		),
	}
}
