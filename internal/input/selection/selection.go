// Package selection tracks the rectangular region of VISUAL mode.
package selection

// Selection is an anchor plus a moving cursor. Bounds are always derived
// with min/max so the anchor may sit at any corner.
type Selection struct {
	AnchorX, AnchorY int
	CursorX, CursorY int
}

// New starts a selection anchored at (x, y).
func New(x, y int) *Selection {
	return &Selection{AnchorX: x, AnchorY: y, CursorX: x, CursorY: y}
}

// Update moves the selection cursor.
func (s *Selection) Update(x, y int) {
	s.CursorX, s.CursorY = x, y
}

// Bounds returns the normalized inclusive corners.
func (s *Selection) Bounds() (x1, y1, x2, y2 int) {
	return min(s.AnchorX, s.CursorX), min(s.AnchorY, s.CursorY),
		max(s.AnchorX, s.CursorX), max(s.AnchorY, s.CursorY)
}

// Width returns the inclusive column span.
func (s *Selection) Width() int {
	x1, _, x2, _ := s.Bounds()
	return x2 - x1 + 1
}

// Height returns the inclusive row span.
func (s *Selection) Height() int {
	_, y1, _, y2 := s.Bounds()
	return y2 - y1 + 1
}

// Contains reports whether (x, y) lies inside the selection.
func (s *Selection) Contains(x, y int) bool {
	x1, y1, x2, y2 := s.Bounds()
	return x >= x1 && x <= x2 && y >= y1 && y <= y2
}

// Rect returns the top-left corner and inclusive size.
func (s *Selection) Rect() (x, y, w, h int) {
	x1, y1, _, _ := s.Bounds()
	return x1, y1, s.Width(), s.Height()
}
