package history

import (
	"errors"
	"sync"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when NewHistory receives a non-positive limit.
const DefaultMaxEntries = 1000

// CellSetter applies cell values during undo and redo.
type CellSetter interface {
	Set(x, y int, r rune)
}

// Change is one cell transition.
type Change struct {
	X, Y   int
	Before rune
	After  rune
}

// Group is one undoable step.
type Group struct {
	Label     string
	Changes   []Change
	Timestamp time.Time
}

// History manages undo/redo state for the canvas.
type History struct {
	mu sync.Mutex

	undoStack []*Group
	redoStack []*Group

	open  *Group
	depth int

	maxEntries int
}

// NewHistory creates a history that keeps at most maxEntries groups.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Begin opens a group. Nested Begin calls join the outer group.
func (h *History) Begin(label string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.depth++
	if h.open == nil {
		h.open = &Group{Label: label, Timestamp: time.Now()}
	}
}

// Record adds a cell change to the open group. Changes recorded outside a
// group form a group of their own. No-op changes are ignored.
func (h *History) Record(x, y int, before, after rune) {
	if before == after {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	c := Change{X: x, Y: y, Before: before, After: after}
	if h.open == nil {
		h.pushLocked(&Group{Label: "edit", Changes: []Change{c}, Timestamp: time.Now()})
		return
	}
	h.open.Changes = append(h.open.Changes, c)
}

// End closes the group opened by the matching Begin.
func (h *History) End() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	g := h.open
	h.open = nil
	if len(g.Changes) > 0 {
		h.pushLocked(g)
	}
}

// Cancel rolls back every change of the open group through s and discards
// the group, including any outer nesting.
func (h *History) Cancel(s CellSetter) {
	h.mu.Lock()
	g := h.open
	h.open = nil
	h.depth = 0
	h.mu.Unlock()

	if g == nil || s == nil {
		return
	}
	for i := len(g.Changes) - 1; i >= 0; i-- {
		c := g.Changes[i]
		s.Set(c.X, c.Y, c.Before)
	}
}

func (h *History) pushLocked(g *Group) {
	h.undoStack = append(h.undoStack, g)
	h.redoStack = nil
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent group and returns the position of its
// first change so the caller can move the cursor there.
func (h *History) Undo(s CellSetter) (x, y int, err error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return 0, 0, ErrNothingToUndo
	}
	g := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, g)
	h.mu.Unlock()

	for i := len(g.Changes) - 1; i >= 0; i-- {
		c := g.Changes[i]
		s.Set(c.X, c.Y, c.Before)
	}
	return g.Changes[0].X, g.Changes[0].Y, nil
}

// Redo reapplies the most recently undone group.
func (h *History) Redo(s CellSetter) (x, y int, err error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return 0, 0, ErrNothingToRedo
	}
	g := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, g)
	h.mu.Unlock()

	for _, c := range g.Changes {
		s.Set(c.X, c.Y, c.After)
	}
	last := g.Changes[len(g.Changes)-1]
	return last.X, last.Y, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// Clear drops all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.open = nil
	h.depth = 0
}
