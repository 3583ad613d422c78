package mode

import (
	"fmt"
	"strings"

	"github.com/dshills/gridstorm/internal/input"
)

func (m *Machine) registerBuiltins() {
	m.RegisterCommand("quit", "quit", func(*Call) Result {
		return Result{Quit: true, Message: "Quit"}
	}, "q")

	m.RegisterCommand("write", "write [FILE]", func(c *Call) Result {
		return Result{Command: strings.TrimSpace("save " + c.Raw)}
	}, "w")

	m.RegisterCommand("wq", "wq [FILE]", func(c *Call) Result {
		return Result{Command: strings.TrimSpace("save " + c.Raw), Quit: true}
	})

	m.RegisterCommand("goto", "goto X Y", m.cmdGoto, "g")
	m.RegisterCommand("origin", "origin [X Y | here]", m.cmdOrigin)
	m.RegisterCommand("clear", "clear", m.cmdClear)
	m.RegisterCommand("marks", "marks", m.cmdMarks)
	m.RegisterCommand("mark", "mark KEY [X Y]", m.cmdMark)
	m.RegisterCommand("delmark", "delmark KEY", m.cmdDelmark)
	m.RegisterCommand("delmarks", "delmarks", func(*Call) Result {
		m.marks.Clear()
		return message("All marks deleted")
	})
	m.RegisterCommand("help", "help [COMMAND]", m.cmdHelp, "h")
}

func (m *Machine) cmdGoto(c *Call) Result {
	if len(c.Args) != 2 {
		return m.UsageError(c, nil)
	}
	xy, err := c.Ints(0, 2)
	if err != nil {
		return m.UsageError(c, err)
	}
	m.SetCursor(xy[0], xy[1])
	return message("(%d, %d)", xy[0], xy[1])
}

func (m *Machine) cmdOrigin(c *Call) Result {
	x, y := m.cursorX, m.cursorY
	switch len(c.Args) {
	case 0:
	case 1:
		if !strings.EqualFold(c.Args[0], "here") {
			return m.UsageError(c, nil)
		}
	case 2:
		xy, err := c.Ints(0, 2)
		if err != nil {
			return m.UsageError(c, err)
		}
		x, y = xy[0], xy[1]
	default:
		return m.UsageError(c, nil)
	}
	m.view.SetOrigin(x, y)
	return message("Origin set to (%d, %d)", x, y)
}

func (m *Machine) cmdClear(*Call) Result {
	m.ledger.Begin("clear")
	n := 0
	m.canvas.Each(func(x, y int, r rune) bool {
		m.setCell(x, y, ' ')
		n++
		return true
	})
	m.ledger.End()
	return message("Cleared %d cells", n)
}

func (m *Machine) cmdMarks(*Call) Result {
	keys := m.marks.Keys()
	if len(keys) == 0 {
		return message("No marks set")
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		b, _ := m.marks.Get(k)
		parts = append(parts, fmt.Sprintf("%c(%d,%d)", k, b.X, b.Y))
	}
	return message("Marks: %s", strings.Join(parts, " "))
}

func (m *Machine) cmdMark(c *Call) Result {
	if len(c.Args) != 1 && len(c.Args) != 3 {
		return m.UsageError(c, nil)
	}
	k, err := singleKey(c.Args[0])
	if err != nil {
		return m.UsageError(c, err)
	}
	x, y := m.cursorX, m.cursorY
	if len(c.Args) == 3 {
		xy, err := c.Ints(1, 2)
		if err != nil {
			return m.UsageError(c, err)
		}
		x, y = xy[0], xy[1]
	}
	if err := m.marks.Set(k, x, y, ""); err != nil {
		return m.UsageError(c, err)
	}
	return message("Mark '%c' set at (%d, %d)", k, x, y)
}

func (m *Machine) cmdDelmark(c *Call) Result {
	if len(c.Args) != 1 {
		return m.UsageError(c, nil)
	}
	k, err := singleKey(c.Args[0])
	if err != nil {
		return m.UsageError(c, err)
	}
	if !m.marks.Delete(k) {
		return failure("Mark '%c' not set", k)
	}
	return message("Mark '%c' deleted", k)
}

func (m *Machine) cmdHelp(c *Call) Result {
	if len(c.Args) > 0 {
		if u := m.Usage(c.Args[0]); u != "" {
			return message("%s", u)
		}
		return failure("Unknown command: %s", c.Args[0])
	}
	return message("Commands: %s", strings.Join(m.Commands(), " "))
}

func singleKey(s string) (rune, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("mark key must be one character, got %q", s)
	}
	k, ok := input.NormalizeKey(r[0])
	if !ok {
		return 0, fmt.Errorf("mark key must be a-z or 0-9, got %q", s)
	}
	return k, nil
}
