// Package history provides undo/redo for canvas edits.
//
// Every reversible operation is recorded as a group of cell changes:
//
//	h.Begin("draw")
//	h.Record(x, y, before, after)
//	h.End()
//
// A group is one undo step. Empty groups are dropped. Cancel rolls the
// open group back and discards it, so a partially applied operation is
// never left on the stack.
package history
