package mode

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/input"
)

// markSetMode consumes exactly one key. Bound keys such as h/j/k/l arrive
// as actions, so the raw key is consulted through AlnumKey.
type markSetMode struct{}

func (markSetMode) enter(*Machine) {}
func (markSetMode) exit(*Machine)  {}

func (markSetMode) handle(m *Machine, ev input.Event) Result {
	k, ok := ev.AlnumKey()
	res := m.switchTo(ModeNav)
	if !ok {
		res.Message = "Mark cancelled"
		return res
	}
	if err := m.marks.Set(k, m.cursorX, m.cursorY, ""); err != nil {
		res.Message, res.Error = err.Error(), true
		return res
	}
	res.Message = fmt.Sprintf("Mark '%c' set at (%d, %d)", k, m.cursorX, m.cursorY)
	return res
}

type markJumpMode struct{}

func (markJumpMode) enter(*Machine) {}
func (markJumpMode) exit(*Machine)  {}

func (markJumpMode) handle(m *Machine, ev input.Event) Result {
	k, ok := ev.AlnumKey()
	res := m.switchTo(ModeNav)
	if !ok {
		res.Message = "Jump cancelled"
		return res
	}
	b, found := m.marks.Get(k)
	if !found {
		res.Message, res.Error = fmt.Sprintf("Mark '%c' not set", k), true
		return res
	}
	m.SetCursor(b.X, b.Y)
	res.Message = fmt.Sprintf("Jumped to '%c' (%d, %d)", k, b.X, b.Y)
	return res
}
