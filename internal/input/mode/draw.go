package mode

import "github.com/dshills/gridstorm/internal/input"

// direction is a set of line-segment bits: the sides of a cell a line
// leaves through.
type direction uint8

const (
	dirUp direction = 1 << iota
	dirDown
	dirLeft
	dirRight

	dirNone direction = 0
)

func (d direction) opposite() direction {
	switch d {
	case dirUp:
		return dirDown
	case dirDown:
		return dirUp
	case dirLeft:
		return dirRight
	case dirRight:
		return dirLeft
	}
	return dirNone
}

func directionOf(dx, dy int) direction {
	switch {
	case dx > 0:
		return dirRight
	case dx < 0:
		return dirLeft
	case dy > 0:
		return dirDown
	case dy < 0:
		return dirUp
	}
	return dirNone
}

var glyphs = map[direction]rune{
	dirUp:                               '│',
	dirDown:                             '│',
	dirUp | dirDown:                     '│',
	dirLeft:                             '─',
	dirRight:                            '─',
	dirLeft | dirRight:                  '─',
	dirDown | dirRight:                  '┌',
	dirDown | dirLeft:                   '┐',
	dirUp | dirRight:                    '└',
	dirUp | dirLeft:                     '┘',
	dirUp | dirDown | dirRight:          '├',
	dirUp | dirDown | dirLeft:           '┤',
	dirLeft | dirRight | dirDown:        '┬',
	dirLeft | dirRight | dirUp:          '┴',
	dirUp | dirDown | dirLeft | dirRight: '┼',
}

var glyphBits = func() map[rune]direction {
	bits := map[rune]direction{
		'│': dirUp | dirDown,
		'─': dirLeft | dirRight,
		'|': dirUp | dirDown,
		'-': dirLeft | dirRight,
		'+': dirUp | dirDown | dirLeft | dirRight,
	}
	for d, g := range glyphs {
		if _, ok := bits[g]; !ok {
			bits[g] = d
		}
	}
	return bits
}()

// glyphFor returns the box-drawing rune for a set of line sides.
func glyphFor(d direction) rune {
	return glyphs[d]
}

// drawMode traces lines while the pen is down. Each move writes the cell
// being left with a glyph joining the side we arrived through, the side
// we leave through, and whatever line segments the cell already had.
type drawMode struct{}

func (drawMode) enter(m *Machine) {
	m.pen = true
	m.lastDir = dirNone
}

func (drawMode) exit(m *Machine) {
	m.pen = false
	m.lastDir = dirNone
}

func (drawMode) handle(m *Machine, ev input.Event) Result {
	if dx, dy, fast, ok := ev.Action.Delta(); ok {
		m.drawSteps(dx, dy, m.step(fast))
		return handled()
	}
	switch ev.Action {
	case input.ActionExitMode:
		return m.switchTo(ModeNav)
	case input.ActionPenToggle:
		return m.togglePen()
	}
	switch ev.Char {
	case ' ':
		return m.togglePen()
	case 'D':
		return m.switchTo(ModeNav)
	}
	return Result{}
}

// togglePen flips the pen at most once per frame, so a keyboard press and
// a controller button landing in the same frame do not cancel out.
func (m *Machine) togglePen() Result {
	if m.penToggled {
		return handled()
	}
	m.penToggled = true
	m.pen = !m.pen
	m.lastDir = dirNone
	if m.pen {
		return message("Pen down")
	}
	return message("Pen up")
}

func (m *Machine) drawSteps(dx, dy, n int) {
	d := directionOf(dx, dy)
	if !m.pen {
		m.SetCursor(m.cursorX+dx*n, m.cursorY+dy*n)
		return
	}

	m.ledger.Begin("draw")
	for range n {
		bits := glyphBits[m.canvas.Get(m.cursorX, m.cursorY)]
		bits |= m.lastDir.opposite() | d
		m.setCell(m.cursorX, m.cursorY, glyphFor(bits))
		m.cursorX += dx
		m.cursorY += dy
		m.lastDir = d
	}
	m.ledger.End()
	m.view.EnsureVisible(m.cursorX, m.cursorY)
}
