package mode

import "github.com/dshills/gridstorm/internal/input"

type navMode struct{}

func (navMode) enter(*Machine) {}
func (navMode) exit(*Machine)  {}

func (navMode) handle(m *Machine, ev input.Event) Result {
	if m.move(ev) {
		return handled()
	}
	switch ev.Action {
	case input.ActionTogglePan:
		return m.switchTo(ModePan)
	case input.ActionDrawMode:
		return m.switchTo(ModeDraw)
	case input.ActionRedo:
		return Result{Handled: true, Command: "redo"}
	case input.ActionExitMode:
		return handled()
	case input.ActionDeleteChar:
		m.writeCell("delete", m.cursorX, m.cursorY, ' ')
		return handled()
	}

	switch ev.Char {
	case 'i':
		return m.switchTo(ModeEdit)
	case ':', '/':
		return m.switchTo(ModeCommand)
	case 'm':
		return m.switchTo(ModeMarkSet)
	case '\'':
		return m.switchTo(ModeMarkJump)
	case 'v':
		return m.switchTo(ModeVisual)
	case 'D':
		return m.switchTo(ModeDraw)
	case 'u':
		return Result{Handled: true, Command: "undo"}
	case 'P':
		return Result{Handled: true, Command: "paste"}
	case 'x':
		m.writeCell("delete", m.cursorX, m.cursorY, ' ')
		return handled()
	}
	return Result{}
}

// panMode moves the viewport together with the cursor, so the cursor
// keeps its screen position.
type panMode struct{}

func (panMode) enter(*Machine) {}
func (panMode) exit(*Machine)  {}

func (panMode) handle(m *Machine, ev input.Event) Result {
	if dx, dy, fast, ok := ev.Action.Delta(); ok {
		n := m.step(fast)
		m.view.Pan(dx*n, dy*n)
		m.cursorX += dx * n
		m.cursorY += dy * n
		return handled()
	}
	switch ev.Action {
	case input.ActionTogglePan, input.ActionExitMode:
		return m.switchTo(ModeNav)
	}
	switch ev.Char {
	case ':':
		return m.switchTo(ModeCommand)
	case 'i':
		return m.switchTo(ModeEdit)
	}
	return Result{}
}
