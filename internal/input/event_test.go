package input

import (
	"testing"

	"github.com/dshills/gridstorm/internal/input/key"
)

func TestAlnumKey(t *testing.T) {
	tests := []struct {
		name   string
		ev     Event
		want   rune
		wantOK bool
	}{
		{"char", CharEvent('a'), 'a', true},
		{"upper char", CharEvent('Q'), 'q', true},
		{"digit", CharEvent('7'), '7', true},
		{"bound key keeps raw rune", Event{Action: ActionMoveLeft, Key: key.KeyRune, Rune: 'h'}, 'h', true},
		{"bound uppercase", Event{Action: ActionMoveLeftFast, Key: key.KeyRune, Rune: 'H'}, 'h', true},
		{"punctuation", CharEvent('\''), 0, false},
		{"special key", Event{Action: ActionExitMode, Key: key.KeyEscape}, 0, false},
		{"empty", Event{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ev.AlnumKey()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AlnumKey() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	for a, name := range actionNames {
		got, err := ParseAction(name)
		if err != nil {
			t.Fatalf("ParseAction(%q) error: %v", name, err)
		}
		if got != a {
			t.Errorf("ParseAction(%q) = %v, want %v", name, got, a)
		}
	}
	if _, err := ParseAction("teleport"); err == nil {
		t.Error("ParseAction(teleport) should fail")
	}
}

func TestDelta(t *testing.T) {
	dx, dy, fast, ok := ActionMoveLeftFast.Delta()
	if dx != -1 || dy != 0 || !fast || !ok {
		t.Errorf("MoveLeftFast.Delta() = %d,%d,%v,%v", dx, dy, fast, ok)
	}
	if _, _, _, ok := ActionNewline.Delta(); ok {
		t.Error("Newline should not be a movement")
	}
}
