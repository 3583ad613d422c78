package mode

import (
	"testing"

	"github.com/dshills/gridstorm/internal/input"
)

func TestDrawCornersDiffer(t *testing.T) {
	tests := []struct {
		name string
		turn input.Action
		want rune
	}{
		{"right then down", input.ActionMoveDown, '┐'},
		{"right then up", input.ActionMoveUp, '┘'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.feed(char('D'))
			if !f.m.PenDown() {
				t.Fatal("pen should be down on entering DRAW")
			}
			f.feed(act(input.ActionMoveRight), act(tt.turn))
			if got := f.c.Get(0, 0); got != '─' {
				t.Errorf("start cell = %q, want ─", got)
			}
			if got := f.c.Get(1, 0); got != tt.want {
				t.Errorf("corner = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDrawCrossingMerges(t *testing.T) {
	f := newFixture(t)
	f.m.SetCursor(0, 1)
	f.feed(char('D'), act(input.ActionMoveRight), act(input.ActionMoveRight), act(input.ActionMoveRight))
	f.feed(act(input.ActionExitMode))

	f.m.SetCursor(1, 0)
	f.feed(char('D'), act(input.ActionMoveDown), act(input.ActionMoveDown))
	if got := f.c.Get(1, 1); got != '┼' {
		t.Errorf("crossing = %q, want ┼", got)
	}
}

func TestPenUpDoesNotWrite(t *testing.T) {
	f := newFixture(t)
	f.feed(char('D'))
	res := f.feed(char(' '))
	if f.m.PenDown() || res.Message != "Pen up" {
		t.Fatalf("toggle result = %+v", res)
	}
	f.feed(act(input.ActionMoveRight), act(input.ActionMoveDownFast))
	if f.c.Len() != 0 {
		t.Errorf("pen-up moves wrote %d cells", f.c.Len())
	}
	if x, y := f.m.Cursor(); x != 1 || y != 10 {
		t.Errorf("Cursor() = %d,%d", x, y)
	}
}

func TestPenToggleOncePerFrame(t *testing.T) {
	f := newFixture(t)
	f.feed(char('D'))

	f.feed(char(' '), act(input.ActionPenToggle))
	if f.m.PenDown() {
		t.Error("second toggle in the same frame should be ignored")
	}

	f.m.ResetFrameGuards()
	f.feed(act(input.ActionPenToggle))
	if !f.m.PenDown() {
		t.Error("toggle after frame reset should apply")
	}
}

func TestDrawFastMoveIsOneUndoStep(t *testing.T) {
	f := newFixture(t)
	f.feed(char('D'), act(input.ActionMoveRightFast))
	if f.c.Len() != 10 {
		t.Fatalf("cells = %d, want 10", f.c.Len())
	}
	if f.hist.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", f.hist.UndoCount())
	}
}

func TestGlyphBitsRoundTrip(t *testing.T) {
	for bits, g := range glyphs {
		got := glyphBits[g]
		if glyphFor(got) != g {
			t.Errorf("glyph %q (bits %04b) decodes to %04b", g, bits, got)
		}
	}
}
