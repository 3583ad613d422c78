package mode

import "fmt"

// Mode identifies one state of the input state machine.
type Mode uint8

const (
	ModeNav Mode = iota
	ModePan
	ModeEdit
	ModeCommand
	ModeMarkSet
	ModeMarkJump
	ModeVisual
	ModeDraw
)

var modeNames = [...]string{
	ModeNav:      "NAV",
	ModePan:      "PAN",
	ModeEdit:     "EDIT",
	ModeCommand:  "COMMAND",
	ModeMarkSet:  "MARK_SET",
	ModeMarkJump: "MARK_JUMP",
	ModeVisual:   "VISUAL",
	ModeDraw:     "DRAW",
}

// String returns the status-line name of the mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "UNKNOWN"
}

// TextEntry reports whether printable keys in this mode are literal text.
func (m Mode) TextEntry() bool {
	return m == ModeEdit || m == ModeCommand
}

// CursorStyle is the cursor shape a renderer should show for a mode.
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorBar
	CursorUnderline
)

// CursorStyle returns the cursor style for the mode.
func (m Mode) CursorStyle() CursorStyle {
	switch m {
	case ModeEdit, ModeCommand:
		return CursorBar
	case ModeMarkSet, ModeMarkJump:
		return CursorUnderline
	default:
		return CursorBlock
	}
}

// Result describes the outcome of processing one event or command.
type Result struct {
	// Handled is false when the event meant nothing in the current mode.
	Handled bool

	// ModeChanged is set when the event switched modes; NewMode is the
	// mode now active.
	ModeChanged bool
	NewMode     Mode

	// Command is work for the host, e.g. "undo" or "save file.json".
	Command string

	// Message is status-line text. Error marks it as a failure.
	Message string
	Error   bool

	// Quit asks the host to exit after running Command.
	Quit bool
}

func handled() Result {
	return Result{Handled: true}
}

func message(format string, args ...any) Result {
	return Result{Handled: true, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Result {
	return Result{Handled: true, Message: fmt.Sprintf(format, args...), Error: true}
}
