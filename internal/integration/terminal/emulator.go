package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Backend names accepted by NewEmulator.
const (
	BackendBuiltin = "builtin"
	BackendVT      = "vt"
)

// Emulator turns a terminal byte stream into a character grid.
//
// Implementations are safe for concurrent use: the PTY reader goroutine
// writes while the render loop reads.
type Emulator interface {
	// Write feeds raw terminal output.
	Write(p []byte) (int, error)

	// Lines returns the visible rows. A positive scrollOffset looks that
	// many lines back into the scrollback.
	Lines(scrollOffset int) []string

	// Cursor returns the 0-based cursor position on the grid.
	Cursor() (x, y int)

	// Size returns the grid dimensions.
	Size() (width, height int)

	// Resize changes the grid dimensions.
	Resize(width, height int)

	// ScrollbackLen returns the number of lines available for scrolling back.
	ScrollbackLen() int

	// SetReplyWriter sets where query responses (cursor reports, device
	// attributes) are written, normally the PTY master.
	SetReplyWriter(w io.Writer)

	// Close releases the emulator.
	Close() error
}

// NewEmulator creates an emulator using the named backend. An empty name
// selects the builtin backend.
func NewEmulator(backend string, width, height, scrollback int) (Emulator, error) {
	switch strings.ToLower(backend) {
	case "", BackendBuiltin:
		return NewBuiltin(width, height, scrollback), nil
	case BackendVT:
		return NewVT(width, height), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Builtin is the in-tree Emulator built on Screen and Parser.
type Builtin struct {
	mu     sync.Mutex
	screen *Screen
	parser *Parser

	replyMu sync.Mutex
	reply   io.Writer
	pending [][]byte

	closed bool
}

// NewBuiltin creates a builtin emulator.
func NewBuiltin(width, height, scrollback int) *Builtin {
	b := &Builtin{screen: NewScreen(width, height, scrollback)}
	b.parser = NewParser(b.screen)
	b.parser.SetReplyFunc(func(p []byte) {
		b.pending = append(b.pending, p)
	})
	return b
}

// Write parses p into the grid. Replies generated by p are written after
// the grid lock is released.
func (b *Builtin) Write(p []byte) (int, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0, ErrClosed
	}
	b.parser.Parse(p)
	replies := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(replies) > 0 {
		b.replyMu.Lock()
		w := b.reply
		b.replyMu.Unlock()
		if w != nil {
			for _, r := range replies {
				_, _ = w.Write(r)
			}
		}
	}
	return len(p), nil
}

// Lines implements Emulator.
func (b *Builtin) Lines(scrollOffset int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen.Lines(scrollOffset)
}

// Cursor implements Emulator.
func (b *Builtin) Cursor() (x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen.Cursor()
}

// Size implements Emulator.
func (b *Builtin) Size() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen.Size()
}

// Resize implements Emulator.
func (b *Builtin) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screen.Resize(width, height)
}

// ScrollbackLen implements Emulator.
func (b *Builtin) ScrollbackLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.screen.Alternate() {
		return 0
	}
	return b.screen.Scrollback().Len()
}

// SetReplyWriter implements Emulator.
func (b *Builtin) SetReplyWriter(w io.Writer) {
	b.replyMu.Lock()
	defer b.replyMu.Unlock()
	b.reply = w
}

// Title returns the window title set by the application.
func (b *Builtin) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parser.Title()
}

// CursorVisible reports whether the application has hidden the cursor.
func (b *Builtin) CursorVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen.CursorVisible()
}

// Close implements Emulator. Further writes fail with ErrClosed.
func (b *Builtin) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
