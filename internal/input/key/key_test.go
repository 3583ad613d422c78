package key

import (
	"errors"
	"testing"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "None"},
		{KeyEscape, "Escape"},
		{KeyEnter, "Enter"},
		{KeyLeft, "Left"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeyRune, "Rune"},
		{Key(999), "Key(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"esc", KeyEscape},
		{"CR", KeyEnter},
		{"PgDn", KeyPageDown},
		{"f5", KeyF5},
		{"F12", KeyF12},
		{"f13", KeyNone},
		{"bogus", KeyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromName(tt.name); got != tt.want {
				t.Errorf("FromName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"a", NewRuneEvent('a', ModNone)},
		{"H", NewRuneEvent('H', ModNone)},
		{":", NewRuneEvent(':', ModNone)},
		{"+", NewRuneEvent('+', ModNone)},
		{"Enter", NewSpecialEvent(KeyEnter, ModNone)},
		{"Space", NewRuneEvent(' ', ModNone)},
		{"Ctrl+D", NewRuneEvent('d', ModCtrl)},
		{"Ctrl+]", NewRuneEvent(']', ModCtrl)},
		{"Ctrl++", NewRuneEvent('+', ModCtrl)},
		{"Shift+Left", NewSpecialEvent(KeyLeft, ModShift)},
		{"<C-p>", NewRuneEvent('p', ModCtrl)},
		{"<S-Up>", NewSpecialEvent(KeyUp, ModShift)},
		{"<CR>", NewSpecialEvent(KeyEnter, ModNone)},
		{"<Esc>", NewSpecialEvent(KeyEscape, ModNone)},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"Hyper+a", ErrInvalidSpec},
		{"abc", ErrInvalidSpec},
		{"<X-a>", ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := Parse(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
			}
		})
	}
}

func TestEventBinding(t *testing.T) {
	// Terminals report uppercase letters with Shift held.
	shifted := NewRuneEvent('H', ModShift)
	if got := shifted.Binding(); got != MustParse("H") {
		t.Errorf("Binding() = %+v, want %+v", got, MustParse("H"))
	}

	ctrl := NewRuneEvent('D', ModCtrl|ModShift)
	if got := ctrl.Binding(); got != MustParse("Ctrl+d") {
		t.Errorf("Binding() = %+v, want Ctrl+d", got)
	}
}

func TestEventStringRoundTrip(t *testing.T) {
	specs := []string{"a", "Ctrl+d", "Shift+Left", "Enter", "Space", "F5", "Ctrl+Alt+x"}
	for _, spec := range specs {
		ev := MustParse(spec)
		back, err := Parse(ev.String())
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", ev.String(), err)
		}
		if back != ev {
			t.Errorf("round trip %q: got %+v, want %+v", spec, back, ev)
		}
	}
}

func TestIsPrintable(t *testing.T) {
	tests := []struct {
		ev   Event
		want bool
	}{
		{NewRuneEvent('a', ModNone), true},
		{NewRuneEvent('A', ModShift), true},
		{NewRuneEvent('a', ModCtrl), false},
		{NewSpecialEvent(KeyEnter, ModNone), false},
		{NewRuneEvent('\x01', ModNone), false},
	}
	for _, tt := range tests {
		if got := tt.ev.IsPrintable(); got != tt.want {
			t.Errorf("%+v.IsPrintable() = %v, want %v", tt.ev, got, tt.want)
		}
	}
}
