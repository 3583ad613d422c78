package history

import (
	"errors"
	"testing"
)

type cells map[[2]int]rune

func (c cells) Set(x, y int, r rune) {
	if r == ' ' {
		delete(c, [2]int{x, y})
		return
	}
	c[[2]int{x, y}] = r
}

func (c cells) get(x, y int) rune {
	if r, ok := c[[2]int{x, y}]; ok {
		return r
	}
	return ' '
}

// write applies and records a change the way canvas callers do.
func write(h *History, c cells, x, y int, r rune) {
	before := c.get(x, y)
	c.Set(x, y, r)
	h.Record(x, y, before, r)
}

func TestUndoRedoGroup(t *testing.T) {
	h := NewHistory(0)
	c := cells{}

	h.Begin("word")
	write(h, c, 0, 0, 'h')
	write(h, c, 1, 0, 'i')
	h.End()

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}

	x, y, err := h.Undo(c)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if x != 0 || y != 0 {
		t.Errorf("Undo position = %d,%d", x, y)
	}
	if len(c) != 0 {
		t.Errorf("cells after undo = %v", c)
	}

	if _, _, err := h.Redo(c); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if c.get(0, 0) != 'h' || c.get(1, 0) != 'i' {
		t.Errorf("cells after redo = %v", c)
	}
}

func TestEmptyGroupDropped(t *testing.T) {
	h := NewHistory(0)
	h.Begin("noop")
	h.Record(1, 1, 'x', 'x')
	h.End()
	if h.CanUndo() {
		t.Error("empty group should not be recorded")
	}
	if _, _, err := h.Undo(cells{}); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo error = %v", err)
	}
}

func TestNestedGroupsJoin(t *testing.T) {
	h := NewHistory(0)
	c := cells{}
	h.Begin("outer")
	write(h, c, 0, 0, 'a')
	h.Begin("inner")
	write(h, c, 1, 0, 'b')
	h.End()
	write(h, c, 2, 0, 'c')
	h.End()

	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
}

func TestCancelRollsBack(t *testing.T) {
	h := NewHistory(0)
	c := cells{}
	c.Set(0, 0, 'z')

	h.Begin("fill")
	write(h, c, 0, 0, '#')
	write(h, c, 1, 0, '#')
	h.Cancel(c)

	if c.get(0, 0) != 'z' || c.get(1, 0) != ' ' {
		t.Errorf("cells after cancel = %v", c)
	}
	if h.CanUndo() {
		t.Error("cancelled group should not be recorded")
	}

	h.Begin("again")
	write(h, c, 5, 5, 'q')
	h.End()
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
}

func TestNewGroupClearsRedo(t *testing.T) {
	h := NewHistory(0)
	c := cells{}
	write(h, c, 0, 0, 'a')
	_, _, _ = h.Undo(c)
	if !h.CanRedo() {
		t.Fatal("redo should be available")
	}
	write(h, c, 0, 0, 'b')
	if h.CanRedo() {
		t.Error("redo should be cleared by a new change")
	}
}

func TestMaxEntries(t *testing.T) {
	h := NewHistory(2)
	c := cells{}
	for i := range 5 {
		write(h, c, i, 0, 'x')
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
}
