package mode

import (
	"github.com/dshills/gridstorm/internal/engine/history"
	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/input/bookmark"
	"github.com/dshills/gridstorm/internal/input/cmdline"
	"github.com/dshills/gridstorm/internal/input/selection"
)

// Canvas is the cell store the machine edits. Get returns a space for an
// empty cell and Set with a space erases it.
type Canvas interface {
	Get(x, y int) rune
	Set(x, y int, r rune)
	Each(fn func(x, y int, r rune) bool)
}

// Viewport is the part of the screen transform the machine drives.
type Viewport interface {
	Pan(dx, dy int)
	EnsureVisible(x, y int)
	SetOrigin(x, y int)
}

// Ledger records reversible cell changes in undo groups. Cancel rolls the
// open group back through s and discards it.
type Ledger interface {
	Begin(label string)
	Record(x, y int, before, after rune)
	End()
	Cancel(s history.CellSetter)
}

// Options tunes movement and typing.
type Options struct {
	// MoveStep and FastStep are the cells moved per normal and fast move.
	MoveStep int
	FastStep int

	// AdvanceX, AdvanceY is the cursor step after typing a character.
	AdvanceX, AdvanceY int
}

// DefaultOptions returns single-cell moves, ten-cell fast moves and
// left-to-right typing.
func DefaultOptions() Options {
	return Options{MoveStep: 1, FastStep: 10, AdvanceX: 1}
}

// ChangeCallback is called after every mode transition.
type ChangeCallback func(from, to Mode)

type handler interface {
	enter(m *Machine)
	exit(m *Machine)
	handle(m *Machine, ev input.Event) Result
}

// Machine is the modal input state machine.
type Machine struct {
	canvas Canvas
	view   Viewport
	ledger Ledger
	opts   Options

	mode     Mode
	handlers map[Mode]handler

	cursorX, cursorY int
	editStartX       int

	marks *bookmark.Store
	cmd   *cmdline.Buffer
	sel   *selection.Selection

	pen        bool
	lastDir    direction
	penToggled bool

	commands map[string]*command
	names    []string

	callbacks []ChangeCallback
}

// New creates a machine in NAV mode with the cursor at (0, 0). A nil
// ledger disables undo recording.
func New(canvas Canvas, view Viewport, ledger Ledger, opts Options) *Machine {
	if ledger == nil {
		ledger = nopLedger{}
	}
	m := &Machine{
		canvas: canvas,
		view:   view,
		ledger: ledger,
		marks:  bookmark.NewStore(),
		cmd:    cmdline.New(),
		handlers: map[Mode]handler{
			ModeNav:      navMode{},
			ModePan:      panMode{},
			ModeEdit:     editMode{},
			ModeCommand:  commandMode{},
			ModeMarkSet:  markSetMode{},
			ModeMarkJump: markJumpMode{},
			ModeVisual:   visualMode{},
			ModeDraw:     drawMode{},
		},
		commands: make(map[string]*command),
	}
	m.SetOptions(opts)
	m.registerBuiltins()
	return m
}

// Process interprets one input event in the current mode.
func (m *Machine) Process(ev input.Event) Result {
	return m.handlers[m.mode].handle(m, ev)
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// SetMode switches modes, running the exit side effects of the old mode
// and the enter side effects of the new one. Switching to the active mode
// does nothing.
func (m *Machine) SetMode(to Mode) {
	if to == m.mode {
		return
	}
	if _, ok := m.handlers[to]; !ok {
		return
	}
	from := m.mode
	m.handlers[from].exit(m)
	m.mode = to
	m.handlers[to].enter(m)
	for _, cb := range m.callbacks {
		cb(from, to)
	}
}

// switchTo changes mode and reports it.
func (m *Machine) switchTo(to Mode) Result {
	m.SetMode(to)
	return Result{Handled: true, ModeChanged: true, NewMode: m.mode}
}

// OnChange registers a callback for mode transitions.
func (m *Machine) OnChange(cb ChangeCallback) {
	m.callbacks = append(m.callbacks, cb)
}

// Options returns the movement options.
func (m *Machine) Options() Options {
	return m.opts
}

// SetOptions replaces the movement options. Non-positive steps fall back
// to the defaults.
func (m *Machine) SetOptions(opts Options) {
	def := DefaultOptions()
	if opts.MoveStep <= 0 {
		opts.MoveStep = def.MoveStep
	}
	if opts.FastStep <= 0 {
		opts.FastStep = def.FastStep
	}
	if opts.AdvanceX == 0 && opts.AdvanceY == 0 {
		opts.AdvanceX, opts.AdvanceY = def.AdvanceX, def.AdvanceY
	}
	m.opts = opts
}

// Cursor returns the cursor position.
func (m *Machine) Cursor() (x, y int) {
	return m.cursorX, m.cursorY
}

// SetCursor moves the cursor and scrolls it into view.
func (m *Machine) SetCursor(x, y int) {
	m.cursorX, m.cursorY = x, y
	m.view.EnsureVisible(x, y)
	if m.sel != nil {
		m.sel.Update(x, y)
	}
}

// Bookmarks returns the bookmark store.
func (m *Machine) Bookmarks() *bookmark.Store {
	return m.marks
}

// CommandLine returns the command buffer.
func (m *Machine) CommandLine() *cmdline.Buffer {
	return m.cmd
}

// Selection returns the active selection, or nil outside VISUAL.
func (m *Machine) Selection() *selection.Selection {
	return m.sel
}

// PenDown reports whether the DRAW pen is down.
func (m *Machine) PenDown() bool {
	return m.pen
}

// EditStart returns the column newlines return to in EDIT.
func (m *Machine) EditStart() int {
	return m.editStartX
}

// ResetFrameGuards clears once-per-frame guards. The host calls it exactly
// once at the start of every frame.
func (m *Machine) ResetFrameGuards() {
	m.penToggled = false
}

func (m *Machine) step(fast bool) int {
	if fast {
		return m.opts.FastStep
	}
	return m.opts.MoveStep
}

// move shifts the cursor by a movement action and keeps it visible.
// Returns false when ev is not a movement.
func (m *Machine) move(ev input.Event) bool {
	dx, dy, fast, ok := ev.Action.Delta()
	if !ok {
		return false
	}
	n := m.step(fast)
	m.SetCursor(m.cursorX+dx*n, m.cursorY+dy*n)
	return true
}

// writeCell sets one cell as its own undo step.
func (m *Machine) writeCell(label string, x, y int, r rune) {
	m.ledger.Begin(label)
	m.setCell(x, y, r)
	m.ledger.End()
}

// setCell sets a cell inside an open undo group.
func (m *Machine) setCell(x, y int, r rune) {
	before := m.canvas.Get(x, y)
	m.canvas.Set(x, y, r)
	m.ledger.Record(x, y, before, r)
}

type nopLedger struct{}

func (nopLedger) Begin(string)               {}
func (nopLedger) Record(int, int, rune, rune) {}
func (nopLedger) End()                        {}
func (nopLedger) Cancel(history.CellSetter)   {}
