package terminal

// DefaultScrollback is the scrollback bound used when none is configured.
const DefaultScrollback = 1000

// Scrollback is an append-only history of lines scrolled off a Screen,
// bounded to a maximum line count. The oldest lines are dropped first.
type Scrollback struct {
	lines []string
	max   int
}

// NewScrollback creates a scrollback holding at most max lines. A max of 0
// disables scrollback; a negative max selects DefaultScrollback.
func NewScrollback(max int) *Scrollback {
	if max < 0 {
		max = DefaultScrollback
	}
	return &Scrollback{max: max}
}

// Push appends a line, evicting the oldest lines past the bound.
func (b *Scrollback) Push(line string) {
	if b.max == 0 {
		return
	}
	b.lines = append(b.lines, line)
	// trim in batches so eviction is amortized
	if len(b.lines) > b.max+b.max/4 {
		b.lines = append(b.lines[:0:0], b.lines[len(b.lines)-b.max:]...)
	}
}

// Len returns the number of retained lines.
func (b *Scrollback) Len() int {
	return min(len(b.lines), b.max)
}

// Line returns the i-th retained line, oldest first.
func (b *Scrollback) Line(i int) string {
	n := b.Len()
	if i < 0 || i >= n {
		return ""
	}
	return b.lines[len(b.lines)-n+i]
}

// Max returns the bound.
func (b *Scrollback) Max() int {
	return b.max
}

// Clear drops all lines.
func (b *Scrollback) Clear() {
	b.lines = nil
}
