// Package backend provides the terminal the renderer draws on and the
// source of key, resize and paste events.
package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/input/key"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
	EventQuit
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key key.Event

	// Width and Height are set for EventResize.
	Width, Height int

	// PasteText holds the whole bracketed paste for EventPaste.
	PasteText string
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	// PollEvent returns an EventQuit afterwards.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, r rune, style tcell.Style)

	// GetCell returns the cell at the given position.
	GetCell(x, y int) (rune, tcell.Style)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show flushes changes to the display.
	Show()

	// Sync redraws the whole display, e.g. after a resize.
	Sync()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent waits for and returns the next terminal event.
	// This is a blocking call.
	PollEvent() Event

	// Beep produces an audible or visual bell.
	Beep()
}

// Pump reads events from b and sends them to out until the backend shuts
// down or stop is closed. Events that are not keys, resizes or pastes are
// dropped. out is closed when Pump returns.
func Pump(b Backend, out chan<- Event, stop <-chan struct{}) {
	defer close(out)
	for {
		ev := b.PollEvent()
		switch ev.Type {
		case EventQuit:
			return
		case EventNone:
			continue
		}
		select {
		case out <- ev:
		case <-stop:
			return
		}
	}
}

// NullBackend is an in-memory backend for tests.
type NullBackend struct {
	width, height int
	cells         [][]nullCell
	cursorX       int
	cursorY       int
	cursorVisible bool
	beeps         int
	events        chan Event
}

type nullCell struct {
	r     rune
	style tcell.Style
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.alloc()
	return nil
}

func (b *NullBackend) alloc() {
	b.cells = make([][]nullCell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]nullCell, b.width)
	}
	b.Clear()
}

func (b *NullBackend) Shutdown() {
	b.PostEvent(Event{Type: EventQuit})
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = nullCell{r: r, style: style}
	}
}

func (b *NullBackend) GetCell(x, y int) (rune, tcell.Style) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		c := b.cells[y][x]
		return c.r, c.style
	}
	return ' ', tcell.StyleDefault
}

func (b *NullBackend) Clear() {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = nullCell{r: ' ', style: tcell.StyleDefault}
		}
	}
}

func (b *NullBackend) Show() {}
func (b *NullBackend) Sync() {}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

// PostEvent queues an event for PollEvent.
func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

func (b *NullBackend) Beep() { b.beeps++ }

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Beeps returns how many times Beep was called.
func (b *NullBackend) Beeps() int {
	return b.beeps
}

// Row returns the runes of screen row y as a string.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	rs := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.r == 0 {
			continue // wide-rune continuation
		}
		rs = append(rs, c.r)
	}
	return string(rs)
}

// Resize simulates a terminal resize for testing.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.alloc()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
