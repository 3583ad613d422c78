package mode

import "github.com/dshills/gridstorm/internal/input"

// editMode types characters at the cursor. Newline returns to the column
// the cursor had when EDIT was entered.
type editMode struct{}

func (editMode) enter(m *Machine) {
	m.editStartX = m.cursorX
}

func (editMode) exit(*Machine) {}

func (editMode) handle(m *Machine, ev input.Event) Result {
	if m.move(ev) {
		return handled()
	}
	switch ev.Action {
	case input.ActionExitMode:
		return m.switchTo(ModeNav)
	case input.ActionNewline:
		m.SetCursor(m.editStartX, m.cursorY+1)
		return handled()
	case input.ActionBackspace:
		x, y := m.cursorX-m.opts.AdvanceX, m.cursorY-m.opts.AdvanceY
		m.writeCell("backspace", x, y, ' ')
		m.SetCursor(x, y)
		return handled()
	case input.ActionDeleteChar:
		m.writeCell("delete", m.cursorX, m.cursorY, ' ')
		return handled()
	}

	if ev.Char != 0 {
		m.writeCell("type", m.cursorX, m.cursorY, ev.Char)
		m.SetCursor(m.cursorX+m.opts.AdvanceX, m.cursorY+m.opts.AdvanceY)
		return handled()
	}
	return Result{}
}
