// Package cmdline implements the editable command line used in COMMAND
// mode: a rune buffer with a cursor and a submitted-command history.
package cmdline

import (
	"strings"
)

// DefaultHistorySize bounds the number of remembered commands.
const DefaultHistorySize = 200

// Buffer is the live command text plus history. It is owned by the input
// goroutine and is not safe for concurrent use.
type Buffer struct {
	text    []rune
	cursor  int
	history []string
	index   int
	draft   string
	limit   int
}

// New creates an empty buffer with the default history size.
func New() *Buffer {
	return &Buffer{limit: DefaultHistorySize}
}

// Text returns the live text.
func (b *Buffer) Text() string {
	return string(b.text)
}

// Cursor returns the cursor position in runes.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Insert inserts r at the cursor.
func (b *Buffer) Insert(r rune) {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
}

// InsertString inserts s at the cursor.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

// Backspace deletes the rune before the cursor. Returns false at the start.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// Delete deletes the rune under the cursor. Returns false at the end.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

// Left moves the cursor one rune left.
func (b *Buffer) Left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Right moves the cursor one rune right.
func (b *Buffer) Right() {
	if b.cursor < len(b.text) {
		b.cursor++
	}
}

// Home moves the cursor to the start.
func (b *Buffer) Home() { b.cursor = 0 }

// End moves the cursor to the end.
func (b *Buffer) End() { b.cursor = len(b.text) }

// SetText replaces the live text and puts the cursor at the end.
func (b *Buffer) SetText(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}

// Clear empties the live text and resets the history walk.
func (b *Buffer) Clear() {
	b.text = b.text[:0]
	b.cursor = 0
	b.index = len(b.history)
	b.draft = ""
}

// Submit returns the live text, records it in history and clears the
// buffer. Empty lines and repeats of the most recent entry are not
// recorded; older duplicates are kept.
func (b *Buffer) Submit() string {
	line := string(b.text)
	if strings.TrimSpace(line) != "" {
		if n := len(b.history); n == 0 || b.history[n-1] != line {
			b.history = append(b.history, line)
			if b.limit > 0 && len(b.history) > b.limit {
				b.history = b.history[len(b.history)-b.limit:]
			}
		}
	}
	b.Clear()
	return line
}

// HistoryPrev replaces the text with the previous history entry.
func (b *Buffer) HistoryPrev() bool {
	if b.index == 0 || len(b.history) == 0 {
		return false
	}
	if b.index == len(b.history) {
		b.draft = string(b.text)
	}
	b.index--
	b.SetText(b.history[b.index])
	return true
}

// HistoryNext moves toward the newest entry; stepping past it restores
// the text that was being typed.
func (b *Buffer) HistoryNext() bool {
	if b.index >= len(b.history) {
		return false
	}
	b.index++
	if b.index == len(b.history) {
		b.SetText(b.draft)
	} else {
		b.SetText(b.history[b.index])
	}
	return true
}

// History returns a copy of the submitted commands, oldest first.
func (b *Buffer) History() []string {
	return append([]string(nil), b.history...)
}
