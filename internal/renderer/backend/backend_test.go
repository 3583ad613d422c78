package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/input/key"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(20, 5)
	_ = b.Init()

	style := tcell.StyleDefault.Reverse(true)
	b.SetCell(10, 3, 'X', style)

	r, s := b.GetCell(10, 3)
	if r != 'X' || s != style {
		t.Errorf("GetCell = %q %v", r, s)
	}

	// Out of bounds is ignored
	b.SetCell(-1, 0, 'Y', style)
	b.SetCell(100, 0, 'Y', style)
	if r, _ := b.GetCell(-1, 0); r != ' ' {
		t.Errorf("out of bounds GetCell = %q", r)
	}
	if got := b.Row(3); got != "          X         " {
		t.Errorf("Row(3) = %q", got)
	}
}

func TestNullBackendClear(t *testing.T) {
	b := NewNullBackend(4, 2)
	_ = b.Init()
	b.SetCell(1, 1, '#', tcell.StyleDefault)
	b.Clear()
	if got := b.Row(1); got != "    " {
		t.Errorf("Row(1) after Clear = %q", got)
	}
}

func TestNullBackendCursor(t *testing.T) {
	b := NewNullBackend(80, 24)
	_ = b.Init()

	b.ShowCursor(10, 5)
	x, y, visible := b.CursorPosition()
	if x != 10 || y != 5 || !visible {
		t.Errorf("cursor = (%d, %d, %v)", x, y, visible)
	}

	b.HideCursor()
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24)
	_ = b.Init()

	b.Resize(100, 30)
	if w, h := b.Size(); w != 100 || h != 30 {
		t.Errorf("size after resize = (%d, %d)", w, h)
	}
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 30 {
		t.Errorf("resize event = %+v", ev)
	}
	// New rows are writable
	b.SetCell(99, 29, 'Z', tcell.StyleDefault)
	if r, _ := b.GetCell(99, 29); r != 'Z' {
		t.Errorf("GetCell after resize = %q", r)
	}
}

func TestPump(t *testing.T) {
	b := NewNullBackend(10, 2)
	_ = b.Init()
	b.PostEvent(Event{Type: EventKey, Key: key.NewRuneEvent('a', key.ModNone)})
	b.PostEvent(Event{Type: EventNone})
	b.PostEvent(Event{Type: EventPaste, PasteText: "hi"})
	b.Shutdown()

	out := make(chan Event)
	stop := make(chan struct{})
	go Pump(b, out, stop)

	var got []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-out:
			if !ok {
				if len(got) != 2 {
					t.Fatalf("got %d events, want 2: %+v", len(got), got)
				}
				if got[0].Key.Rune != 'a' || got[1].PasteText != "hi" {
					t.Errorf("events = %+v", got)
				}
				return
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("Pump did not close its channel")
		}
	}
}

func TestPumpStops(t *testing.T) {
	b := NewNullBackend(10, 2)
	_ = b.Init()
	b.PostEvent(Event{Type: EventKey, Key: key.NewRuneEvent('a', key.ModNone)})

	out := make(chan Event)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		Pump(b, out, stop)
		close(done)
	}()

	// Nobody reads out; closing stop must release the pending send.
	time.Sleep(10 * time.Millisecond)
	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pump ignored stop")
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), key.NewRuneEvent('x', key.ModNone)},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), key.NewRuneEvent('x', key.ModAlt)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyEnter, key.ModNone)},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyEscape, key.ModNone)},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyBackspace, key.ModNone)},
		{"shift left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), key.NewSpecialEvent(key.KeyLeft, key.ModShift)},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyTab, key.ModShift)},
		{"f5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), key.NewSpecialEvent(key.KeyF5, key.ModNone)},
		{"ctrl p", tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl), key.NewRuneEvent('p', key.ModCtrl)},
		{"raw ctrl a", tcell.NewEventKey(tcell.KeyRune, 0x01, tcell.ModNone), key.NewRuneEvent('a', key.ModCtrl)},
		{"raw ctrl bracket", tcell.NewEventKey(tcell.KeyRune, 0x1d, tcell.ModNone), key.NewRuneEvent(']', key.ModCtrl)},
		{"ctrl underscore", tcell.NewEventKey(tcell.KeyCtrlUnderscore, 0, tcell.ModCtrl), key.NewRuneEvent('_', key.ModCtrl)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertKey(tt.ev)
			if !ok {
				t.Fatal("ConvertKey reported no key")
			}
			if got != tt.want {
				t.Errorf("ConvertKey = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConvertPaste(t *testing.T) {
	term := &Terminal{}
	feed := []tcell.Event{
		tcell.NewEventPaste(true),
		tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone),
	}
	for _, ev := range feed {
		if _, done := term.convert(ev); done {
			t.Fatalf("event %T finished the paste early", ev)
		}
	}
	got, done := term.convert(tcell.NewEventPaste(false))
	if !done || got.Type != EventPaste || got.PasteText != "a\nb" {
		t.Errorf("paste = %+v, done %v", got, done)
	}

	// Keys after the paste are keys again
	got, done = term.convert(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	if !done || got.Type != EventKey || got.Key.Rune != 'c' {
		t.Errorf("key after paste = %+v", got)
	}
}

func TestConvertResize(t *testing.T) {
	term := &Terminal{}
	got, done := term.convert(tcell.NewEventResize(120, 40))
	if !done || got.Type != EventResize || got.Width != 120 || got.Height != 40 {
		t.Errorf("resize = %+v", got)
	}
}
