package mode

import "github.com/dshills/gridstorm/internal/input"

// commandMode edits the ':' line. Submitting always lands in NAV, even
// when the command fails.
type commandMode struct{}

func (commandMode) enter(*Machine) {}

func (commandMode) exit(m *Machine) {
	m.cmd.Clear()
}

func (commandMode) handle(m *Machine, ev input.Event) Result {
	switch ev.Action {
	case input.ActionExitMode:
		return m.switchTo(ModeNav)
	case input.ActionNewline:
		line := m.cmd.Submit()
		m.SetMode(ModeNav)
		res := m.Execute(line)
		res.Handled = true
		res.ModeChanged = true
		res.NewMode = m.mode
		return res
	case input.ActionBackspace:
		m.cmd.Backspace()
		return handled()
	case input.ActionDeleteChar:
		m.cmd.Delete()
		return handled()
	case input.ActionMoveLeft, input.ActionMoveLeftFast:
		m.cmd.Left()
		return handled()
	case input.ActionMoveRight, input.ActionMoveRightFast:
		m.cmd.Right()
		return handled()
	case input.ActionMoveUp, input.ActionMoveUpFast:
		m.cmd.HistoryPrev()
		return handled()
	case input.ActionMoveDown, input.ActionMoveDownFast:
		m.cmd.HistoryNext()
		return handled()
	case input.ActionLineStart:
		m.cmd.Home()
		return handled()
	case input.ActionLineEnd:
		m.cmd.End()
		return handled()
	case input.ActionComplete:
		m.cmd.Complete(m.Commands())
		return handled()
	}

	if ev.Char != 0 {
		m.cmd.Insert(ev.Char)
		return handled()
	}
	return Result{}
}
