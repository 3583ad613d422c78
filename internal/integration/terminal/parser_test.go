package terminal

import (
	"reflect"
	"testing"
)

func feed(w, h int, input string) *Screen {
	s := NewScreen(w, h, 100)
	NewParser(s).ParseString(input)
	return s
}

func TestParserText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", "Hello", []string{"Hello", "", ""}},
		{"crlf", "A\r\nB", []string{"A", "B", ""}},
		{"lf keeps column", "A\nB", []string{"A", " B", ""}},
		{"carriage return overwrites", "ABC\rX", []string{"XBC", "", ""}},
		{"backspace", "AB\bX", []string{"AX", "", ""}},
		{"tab", "A\tB", []string{"A       B", "", ""}},
		{"utf8", "héllo ─│", []string{"héllo ─│", "", ""}},
		{"invalid utf8", "a\xffb", []string{"a�b", "", ""}},
		{"sgr ignored", "\x1b[1;31mred\x1b[0m", []string{"red", "", ""}},
		{"title swallowed", "\x1b]0;my title\x07ok", []string{"ok", "", ""}},
		{"title with st", "\x1b]2;t\x1b\\ok", []string{"ok", "", ""}},
		{"charset ignored", "\x1b(Bok", []string{"ok", "", ""}},
		{"dcs skipped", "\x1bPq#0;1\x1b\\ok", []string{"ok", "", ""}},
		{"wrap", "abcdefghijkl", []string{"abcdefghij", "kl", ""}},
		{"cursor position", "\x1b[2;3HX", []string{"", "  X", ""}},
		{"erase line right", "abcdef\x1b[1;3H\x1b[K", []string{"ab", "", ""}},
		{"erase line left", "abcdef\x1b[1;3H\x1b[1K", []string{"   def", "", ""}},
		{"erase display", "abc\r\ndef\x1b[2J", []string{"", "", ""}},
		{"erase below", "abc\r\ndef\r\nghi\x1b[2;2H\x1b[J", []string{"abc", "d", ""}},
		{"delete chars", "abcdef\x1b[1;2H\x1b[2P", []string{"adef", "", ""}},
		{"insert chars", "abc\x1b[1;2H\x1b[2@", []string{"a  bc", "", ""}},
		{"erase chars", "abcdef\x1b[1;2H\x1b[2X", []string{"a  def", "", ""}},
		{"insert line", "a\r\nb\x1b[1;1H\x1b[L", []string{"", "a", "b"}},
		{"delete line", "a\r\nb\r\nc\x1b[1;1H\x1b[M", []string{"b", "c", ""}},
		{"column absolute", "abc\x1b[5GX", []string{"abc X", "", ""}},
		{"row absolute", "\x1b[3dX", []string{"", "", "X"}},
		{"save restore", "ab\x1b7\x1b[3;1Hz\x1b8c", []string{"abc", "", "z"}},
		{"reverse index scrolls", "a\x1b[1;1H\x1bMz", []string{"z", "a", ""}},
		{"reset", "abc\x1bc", []string{"", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := feed(10, 3, tt.input)
			if got := s.Lines(0); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserCursorMovement(t *testing.T) {
	tests := []struct {
		input string
		x, y  int
	}{
		{"\x1b[5;10H", 9, 4},
		{"\x1b[H", 0, 0},
		{"\x1b[5;10H\x1b[2A", 9, 2},
		{"\x1b[5;10H\x1b[B", 9, 5},
		{"\x1b[5;10H\x1b[3C", 12, 4},
		{"\x1b[5;10H\x1b[20D", 0, 4},
		{"\x1b[5;10H\x1b[2E", 0, 6},
		{"\x1b[5;10H\x1b[F", 0, 3},
		{"\x1b[99;99H", 19, 9},
		{"abc\r\n", 0, 1},
	}
	for _, tt := range tests {
		s := feed(20, 10, tt.input)
		if x, y := s.Cursor(); x != tt.x || y != tt.y {
			t.Errorf("%q: cursor = (%d,%d), want (%d,%d)", tt.input, x, y, tt.x, tt.y)
		}
	}
}

func TestParserSplitSequences(t *testing.T) {
	s := NewScreen(10, 3, 0)
	p := NewParser(s)
	for _, chunk := range []string{"\x1b", "[", "2", ";", "3", "H", "\xe2", "\x94", "\x80"} {
		p.ParseString(chunk)
	}
	if got := s.Lines(0)[1]; got != "  ─" {
		t.Errorf("row 1 = %q, want %q", got, "  ─")
	}
}

func TestParserScrollRegion(t *testing.T) {
	s := feed(10, 4, "top\r\n\x1b[2;3r\x1b[2;1Ha\r\nb\r\nc")
	want := []string{"top", "b", "c", ""}
	if got := s.Lines(0); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
	// region scrolls do not feed the scrollback
	if s.Scrollback().Len() != 0 {
		t.Errorf("scrollback = %d lines, want 0", s.Scrollback().Len())
	}
}

func TestParserPrivateModes(t *testing.T) {
	s := feed(10, 3, "\x1b[?25l")
	if s.CursorVisible() {
		t.Error("cursor should be hidden after ?25l")
	}
	NewParser(s).ParseString("\x1b[?25h")
	if !s.CursorVisible() {
		t.Error("cursor should be visible after ?25h")
	}

	s = feed(5, 2, "\x1b[?7labcdefg")
	if got := s.Lines(0)[0]; got != "abcdg" {
		t.Errorf("no-wrap row = %q, want %q", got, "abcdg")
	}
}

func TestParserAlternateScreen(t *testing.T) {
	s := NewScreen(10, 3, 10)
	p := NewParser(s)
	p.ParseString("shell$ ")
	p.ParseString("\x1b[?1049h")
	if !s.Alternate() {
		t.Fatal("alternate screen not active")
	}
	p.ParseString("vim")
	if got := s.Lines(0)[0]; got != "vim" {
		t.Errorf("alternate row = %q", got)
	}
	p.ParseString("\x1b[?1049l")
	if s.Alternate() {
		t.Fatal("alternate screen still active")
	}
	if got := s.Lines(0)[0]; got != "shell$" {
		t.Errorf("primary row = %q after exit", got)
	}
	if x, y := s.Cursor(); x != 7 || y != 0 {
		t.Errorf("cursor = (%d,%d), want (7,0)", x, y)
	}
}

func TestParserReplies(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"\x1b[3;4H\x1b[6n", "\x1b[3;4R"},
		{"\x1b[5n", "\x1b[0n"},
		{"\x1b[c", "\x1b[?1;2c"},
		{"\x1b[>c", ""},
	}
	for _, tt := range tests {
		s := NewScreen(10, 5, 0)
		p := NewParser(s)
		var got string
		p.SetReplyFunc(func(b []byte) { got += string(b) })
		p.ParseString(tt.input)
		if got != tt.want {
			t.Errorf("%q: reply = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParserTitle(t *testing.T) {
	s := NewScreen(10, 2, 0)
	p := NewParser(s)
	p.ParseString("\x1b]2;build\x07")
	if p.Title() != "build" {
		t.Errorf("Title() = %q", p.Title())
	}
}
