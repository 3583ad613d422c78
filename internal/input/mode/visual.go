package mode

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/input/selection"
)

// visualMode extends a selection anchored where VISUAL was entered.
type visualMode struct{}

func (visualMode) enter(m *Machine) {
	m.sel = selection.New(m.cursorX, m.cursorY)
}

func (visualMode) exit(m *Machine) {
	m.sel = nil
}

func (visualMode) handle(m *Machine, ev input.Event) Result {
	if m.sel == nil {
		return m.switchTo(ModeNav)
	}
	if m.move(ev) {
		return handled()
	}
	if ev.Action == input.ActionExitMode {
		return m.switchTo(ModeNav)
	}

	x, y, w, h := m.sel.Rect()
	switch ev.Char {
	case 'v':
		return m.switchTo(ModeNav)
	case 'y':
		res := m.switchTo(ModeNav)
		res.Command = fmt.Sprintf("yank_selection %d %d %d %d", x, y, w, h)
		return res
	case 'd':
		res := m.switchTo(ModeNav)
		res.Command = fmt.Sprintf("delete_selection %d %d %d %d", x, y, w, h)
		return res
	case 'f':
		res := m.switchTo(ModeCommand)
		m.cmd.SetText(fmt.Sprintf("fill %d %d %d %d ", x, y, w, h))
		return res
	}
	return Result{}
}
