// Package canvas holds the sparse, unbounded character grid and the
// viewport that maps part of it onto the screen.
package canvas

import (
	"sort"
	"strings"
	"sync"
)

// Point is a canvas coordinate. Y grows downward.
type Point struct {
	X, Y int
}

// Canvas is a sparse map of non-blank cells. A space is never stored:
// setting a cell to space erases it.
type Canvas struct {
	mu    sync.RWMutex
	cells map[Point]rune
}

// New creates an empty canvas.
func New() *Canvas {
	return &Canvas{cells: make(map[Point]rune)}
}

// Get returns the rune at (x, y), or a space for an empty cell.
func (c *Canvas) Get(x, y int) rune {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.cells[Point{x, y}]; ok {
		return r
	}
	return ' '
}

// Set writes r at (x, y). Space and zero erase the cell.
func (c *Canvas) Set(x, y int, r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r == ' ' || r == 0 {
		delete(c.cells, Point{x, y})
		return
	}
	c.cells[Point{x, y}] = r
}

// Clear erases the cell at (x, y).
func (c *Canvas) Clear(x, y int) {
	c.Set(x, y, ' ')
}

// ClearAll erases every cell.
func (c *Canvas) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.cells)
}

// Len returns the number of non-blank cells.
func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cells)
}

// Each calls fn for every non-blank cell in row-major order until fn
// returns false. fn may modify the canvas.
func (c *Canvas) Each(fn func(x, y int, r rune) bool) {
	c.mu.RLock()
	pts := make([]Point, 0, len(c.cells))
	for p := range c.cells {
		pts = append(pts, p)
	}
	vals := make([]rune, len(pts))
	sortPoints(pts)
	for i, p := range pts {
		vals[i] = c.cells[p]
	}
	c.mu.RUnlock()

	for i, p := range pts {
		if !fn(p.X, p.Y, vals[i]) {
			return
		}
	}
}

func sortPoints(pts []Point) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
}

// Bounds returns the smallest rectangle covering all cells. ok is false on
// an empty canvas.
func (c *Canvas) Bounds() (minX, minY, maxX, maxY int, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for p := range c.cells {
		if !ok {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			ok = true
			continue
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY, ok
}

// Region returns h lines of w runes starting at (x, y), with trailing
// spaces trimmed.
func (c *Canvas) Region(x, y, w, h int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]string, 0, h)
	row := make([]rune, w)
	for dy := range h {
		for dx := range w {
			r, ok := c.cells[Point{x + dx, y + dy}]
			if !ok {
				r = ' '
			}
			row[dx] = r
		}
		lines = append(lines, strings.TrimRight(string(row), " "))
	}
	return lines
}

// WriteString writes s starting at (x, y) without wrapping and returns the
// number of cells written.
func (c *Canvas) WriteString(x, y int, s string) int {
	n := 0
	for _, r := range s {
		c.Set(x+n, y, r)
		n++
	}
	return n
}
