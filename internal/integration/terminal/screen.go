package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wideTail fills the cell covered by the right half of a double-width rune.
const wideTail rune = 0

// line is one row of the character grid.
type line struct {
	cells   []rune
	wrapped bool
}

func newLine(width int) *line {
	l := &line{cells: make([]rune, width)}
	l.clear()
	return l
}

func (l *line) clear() {
	l.clearRange(0, len(l.cells))
	l.wrapped = false
}

func (l *line) clearRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(l.cells) {
		end = len(l.cells)
	}
	for i := start; i < end; i++ {
		l.cells[i] = ' '
	}
}

// String returns the row with wide-rune tails removed and trailing blanks
// trimmed.
func (l *line) String() string {
	var sb strings.Builder
	for _, r := range l.cells {
		if r == wideTail {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

type cursorState struct {
	x, y       int
	originMode bool
	autoWrap   bool
}

// Screen is a fixed-size character grid with a cursor, a scroll region,
// an alternate buffer and a bounded scrollback.
//
// Screen holds characters only; colors and attributes are discarded by the
// Parser. It is not safe for concurrent use.
type Screen struct {
	width  int
	height int
	lines  []*line

	cursorX int
	cursorY int

	// pendingWrap is set after writing the last column; the next printable
	// rune wraps first.
	pendingWrap bool

	cursorVisible bool

	scrollTop    int
	scrollBottom int

	originMode bool
	autoWrap   bool

	saved cursorState

	// primary holds the main grid while the alternate screen is active.
	primary      []*line
	primarySaved cursorState

	scrollback *Scrollback
}

// NewScreen creates a width x height screen that keeps up to scrollback
// lines scrolled off the top.
func NewScreen(width, height, scrollback int) *Screen {
	if width < 1 {
		width = 80
	}
	if height < 1 {
		height = 24
	}
	s := &Screen{
		width:      width,
		height:     height,
		scrollback: NewScrollback(scrollback),
	}
	s.lines = s.blankLines(height)
	s.resetModes()
	return s
}

func (s *Screen) blankLines(n int) []*line {
	lines := make([]*line, n)
	for i := range lines {
		lines[i] = newLine(s.width)
	}
	return lines
}

func (s *Screen) resetModes() {
	s.cursorVisible = true
	s.scrollTop = 0
	s.scrollBottom = s.height - 1
	s.originMode = false
	s.autoWrap = true
	s.pendingWrap = false
	s.saved = cursorState{autoWrap: true}
}

// Size returns the grid dimensions.
func (s *Screen) Size() (width, height int) {
	return s.width, s.height
}

// Cursor returns the cursor position, 0-based.
func (s *Screen) Cursor() (x, y int) {
	return s.cursorX, s.cursorY
}

// CursorVisible reports whether the application has hidden the cursor.
func (s *Screen) CursorVisible() bool {
	return s.cursorVisible
}

// Alternate reports whether the alternate screen is active.
func (s *Screen) Alternate() bool {
	return s.primary != nil
}

// Scrollback returns the scrollback buffer.
func (s *Screen) Scrollback() *Scrollback {
	return s.scrollback
}

// Rune returns the rune at (x, y), or a space outside the grid.
func (s *Screen) Rune(x, y int) rune {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return ' '
	}
	return s.lines[y].cells[x]
}

// Put writes r at the cursor and advances it, wrapping when auto-wrap is on.
func (s *Screen) Put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// combining marks are dropped
		return
	}
	if w > s.width {
		w = 1
	}

	if s.pendingWrap || s.cursorX+w > s.width {
		if s.autoWrap {
			s.lines[s.cursorY].wrapped = true
			s.cursorX = 0
			s.LineFeed()
		} else {
			s.cursorX = s.width - w
		}
		s.pendingWrap = false
	}

	row := s.lines[s.cursorY]
	// overwriting half of a wide rune blanks the other half
	if s.cursorX > 0 && row.cells[s.cursorX] == wideTail {
		row.cells[s.cursorX-1] = ' '
	}
	row.cells[s.cursorX] = r
	if w == 2 {
		row.cells[s.cursorX+1] = wideTail
	} else if s.cursorX+1 < s.width && row.cells[s.cursorX+1] == wideTail {
		row.cells[s.cursorX+1] = ' '
	}

	s.cursorX += w
	if s.cursorX >= s.width {
		s.cursorX = s.width - 1
		s.pendingWrap = true
	}
}

// MoveTo moves the cursor to (x, y), honoring origin mode.
func (s *Screen) MoveTo(x, y int) {
	s.pendingWrap = false
	top, bottom := 0, s.height-1
	if s.originMode {
		top, bottom = s.scrollTop, s.scrollBottom
		y += top
	}
	s.cursorX = clamp(x, 0, s.width-1)
	s.cursorY = clamp(y, top, bottom)
}

// MoveBy moves the cursor relative to its position. Vertical movement
// stops at the scroll region edges when the cursor starts inside it.
func (s *Screen) MoveBy(dx, dy int) {
	s.pendingWrap = false
	top, bottom := 0, s.height-1
	if s.cursorY >= s.scrollTop && s.cursorY <= s.scrollBottom {
		top, bottom = s.scrollTop, s.scrollBottom
	}
	s.cursorX = clamp(s.cursorX+dx, 0, s.width-1)
	s.cursorY = clamp(s.cursorY+dy, top, bottom)
}

// SetColumn moves the cursor to column x on the current row.
func (s *Screen) SetColumn(x int) {
	s.pendingWrap = false
	s.cursorX = clamp(x, 0, s.width-1)
}

// SetRow moves the cursor to row y keeping the column.
func (s *Screen) SetRow(y int) {
	s.MoveTo(s.cursorX, y)
}

// CarriageReturn moves the cursor to column 0.
func (s *Screen) CarriageReturn() {
	s.pendingWrap = false
	s.cursorX = 0
}

// Backspace moves the cursor one column left.
func (s *Screen) Backspace() {
	s.pendingWrap = false
	if s.cursorX > 0 {
		s.cursorX--
	}
}

// Tab advances to the next 8-column tab stop.
func (s *Screen) Tab() {
	next := (s.cursorX/8 + 1) * 8
	s.SetColumn(next)
}

// LineFeed moves the cursor down, scrolling the region at its bottom.
func (s *Screen) LineFeed() {
	s.pendingWrap = false
	switch {
	case s.cursorY == s.scrollBottom:
		s.ScrollUp(1)
	case s.cursorY < s.height-1:
		s.cursorY++
	}
}

// ReverseLineFeed moves the cursor up, scrolling the region at its top.
func (s *Screen) ReverseLineFeed() {
	s.pendingWrap = false
	switch {
	case s.cursorY == s.scrollTop:
		s.ScrollDown(1)
	case s.cursorY > 0:
		s.cursorY--
	}
}

// ScrollUp scrolls the scroll region up by n lines. Lines leaving the top
// of the primary screen are appended to the scrollback.
func (s *Screen) ScrollUp(n int) {
	top, bottom := s.scrollTop, s.scrollBottom
	n = min(n, bottom-top+1)
	if n <= 0 {
		return
	}
	if top == 0 && !s.Alternate() {
		for y := 0; y < n; y++ {
			s.scrollback.Push(s.lines[y].String())
		}
	}
	s.scrollUpFrom(top, n)
}

// ScrollDown scrolls the scroll region down by n lines.
func (s *Screen) ScrollDown(n int) {
	s.scrollDownFrom(s.scrollTop, n)
}

func (s *Screen) scrollDownFrom(top, n int) {
	bottom := s.scrollBottom
	n = min(n, bottom-top+1)
	if n <= 0 {
		return
	}
	copy(s.lines[top+n:bottom+1], s.lines[top:bottom+1-n])
	for y := top; y < top+n; y++ {
		s.lines[y] = newLine(s.width)
	}
}

func (s *Screen) scrollUpFrom(top, n int) {
	bottom := s.scrollBottom
	n = min(n, bottom-top+1)
	if n <= 0 {
		return
	}
	copy(s.lines[top:], s.lines[top+n:bottom+1])
	for y := bottom - n + 1; y <= bottom; y++ {
		s.lines[y] = newLine(s.width)
	}
}

// SetScrollRegion sets the scroll region to rows top..bottom inclusive and
// homes the cursor. Invalid regions are ignored.
func (s *Screen) SetScrollRegion(top, bottom int) {
	top = max(top, 0)
	bottom = min(bottom, s.height-1)
	if top >= bottom {
		return
	}
	s.scrollTop = top
	s.scrollBottom = bottom
	s.MoveTo(0, 0)
}

// EraseDisplay implements ED: 0 clears below the cursor, 1 above, 2 the
// whole screen and 3 the whole screen plus scrollback.
func (s *Screen) EraseDisplay(mode int) {
	switch mode {
	case 0:
		s.lines[s.cursorY].clearRange(s.cursorX, s.width)
		for y := s.cursorY + 1; y < s.height; y++ {
			s.lines[y].clear()
		}
	case 1:
		for y := 0; y < s.cursorY; y++ {
			s.lines[y].clear()
		}
		s.lines[s.cursorY].clearRange(0, s.cursorX+1)
	case 2, 3:
		for _, l := range s.lines {
			l.clear()
		}
		if mode == 3 {
			s.scrollback.Clear()
		}
	}
}

// EraseLine implements EL: 0 clears right of the cursor, 1 left, 2 the row.
func (s *Screen) EraseLine(mode int) {
	row := s.lines[s.cursorY]
	switch mode {
	case 0:
		row.clearRange(s.cursorX, s.width)
	case 1:
		row.clearRange(0, s.cursorX+1)
	case 2:
		row.clear()
	}
}

// InsertLines inserts n blank rows at the cursor inside the scroll region.
func (s *Screen) InsertLines(n int) {
	if s.cursorY < s.scrollTop || s.cursorY > s.scrollBottom {
		return
	}
	s.scrollDownFrom(s.cursorY, n)
	s.cursorX = 0
}

// DeleteLines removes n rows at the cursor inside the scroll region.
func (s *Screen) DeleteLines(n int) {
	if s.cursorY < s.scrollTop || s.cursorY > s.scrollBottom {
		return
	}
	s.scrollUpFrom(s.cursorY, n)
	s.cursorX = 0
}

// InsertChars shifts the rest of the row right by n blanks.
func (s *Screen) InsertChars(n int) {
	n = min(n, s.width-s.cursorX)
	if n <= 0 {
		return
	}
	row := s.lines[s.cursorY].cells
	copy(row[s.cursorX+n:], row[s.cursorX:s.width-n])
	for x := s.cursorX; x < s.cursorX+n; x++ {
		row[x] = ' '
	}
}

// DeleteChars removes n runes at the cursor, shifting the row left.
func (s *Screen) DeleteChars(n int) {
	n = min(n, s.width-s.cursorX)
	if n <= 0 {
		return
	}
	row := s.lines[s.cursorY].cells
	copy(row[s.cursorX:], row[s.cursorX+n:])
	for x := s.width - n; x < s.width; x++ {
		row[x] = ' '
	}
}

// EraseChars blanks n runes starting at the cursor.
func (s *Screen) EraseChars(n int) {
	s.lines[s.cursorY].clearRange(s.cursorX, s.cursorX+n)
}

// SaveCursor stores the cursor position and modes (DECSC).
func (s *Screen) SaveCursor() {
	s.saved = cursorState{
		x:          s.cursorX,
		y:          s.cursorY,
		originMode: s.originMode,
		autoWrap:   s.autoWrap,
	}
}

// RestoreCursor restores the state stored by SaveCursor (DECRC).
func (s *Screen) RestoreCursor() {
	s.originMode = s.saved.originMode
	s.autoWrap = s.saved.autoWrap
	s.pendingWrap = false
	s.cursorX = clamp(s.saved.x, 0, s.width-1)
	s.cursorY = clamp(s.saved.y, 0, s.height-1)
}

// SetCursorVisible shows or hides the cursor (DECTCEM).
func (s *Screen) SetCursorVisible(visible bool) {
	s.cursorVisible = visible
}

// SetOriginMode toggles DECOM and homes the cursor.
func (s *Screen) SetOriginMode(enabled bool) {
	s.originMode = enabled
	s.MoveTo(0, 0)
}

// SetAutoWrap toggles DECAWM.
func (s *Screen) SetAutoWrap(enabled bool) {
	s.autoWrap = enabled
	s.pendingWrap = false
}

// EnterAlternate switches to a blank alternate grid. Scrolling in the
// alternate grid does not feed the scrollback.
func (s *Screen) EnterAlternate() {
	if s.Alternate() {
		return
	}
	s.SaveCursor()
	s.primarySaved = s.saved
	s.primary = s.lines
	s.lines = s.blankLines(s.height)
	s.MoveTo(0, 0)
}

// ExitAlternate restores the primary grid and its cursor.
func (s *Screen) ExitAlternate() {
	if !s.Alternate() {
		return
	}
	s.lines = s.primary
	s.primary = nil
	s.saved = s.primarySaved
	s.RestoreCursor()
}

// Resize changes the grid size, keeping the top-left content. When the
// screen shrinks vertically, rows above the cursor move to the scrollback
// so the cursor row stays visible.
func (s *Screen) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	if width == s.width && height == s.height {
		return
	}

	if s.Alternate() {
		s.primary = resizeLines(s.primary, width, height)
	} else if excess := s.cursorY - (height - 1); excess > 0 {
		for y := 0; y < excess; y++ {
			s.scrollback.Push(s.lines[y].String())
		}
		s.lines = s.lines[excess:]
		s.cursorY -= excess
	}
	s.lines = resizeLines(s.lines, width, height)

	s.width = width
	s.height = height
	s.scrollTop = 0
	s.scrollBottom = height - 1
	s.pendingWrap = false
	s.cursorX = clamp(s.cursorX, 0, width-1)
	s.cursorY = clamp(s.cursorY, 0, height-1)
	s.saved.x = clamp(s.saved.x, 0, width-1)
	s.saved.y = clamp(s.saved.y, 0, height-1)
}

func resizeLines(lines []*line, width, height int) []*line {
	out := make([]*line, height)
	for y := range out {
		out[y] = newLine(width)
		if y < len(lines) {
			copy(out[y].cells, lines[y].cells)
			out[y].wrapped = lines[y].wrapped
			if len(lines[y].cells) > width && lines[y].cells[width] == wideTail {
				// a wide rune cut in half by the new edge
				out[y].cells[width-1] = ' '
			}
		}
	}
	return out
}

// Reset clears the grid and restores default modes (RIS). Scrollback is
// kept.
func (s *Screen) Reset() {
	if s.Alternate() {
		s.lines = s.primary
		s.primary = nil
	}
	for _, l := range s.lines {
		l.clear()
	}
	s.cursorX, s.cursorY = 0, 0
	s.resetModes()
}

// Lines returns the visible rows, trailing blanks trimmed. A positive
// offset scrolls the view back into the scrollback by that many lines.
func (s *Screen) Lines(offset int) []string {
	offset = clamp(offset, 0, s.scrollback.Len())
	if s.Alternate() {
		offset = 0
	}

	out := make([]string, 0, s.height)
	sbLen := s.scrollback.Len()
	for i := 0; i < s.height; i++ {
		idx := i - offset
		if idx < 0 {
			out = append(out, s.scrollback.Line(sbLen+idx))
			continue
		}
		out = append(out, s.lines[idx].String())
	}
	return out
}

// Text returns the visible rows joined by newlines.
func (s *Screen) Text() string {
	return strings.Join(s.Lines(0), "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
