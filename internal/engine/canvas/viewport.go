package canvas

// Viewport maps a Width x Height window of the canvas onto the screen.
// (X, Y) is the canvas coordinate shown at the top-left screen cell.
type Viewport struct {
	X, Y          int
	Width, Height int

	// OriginX, OriginY mark the user-chosen canvas origin.
	OriginX, OriginY int

	// Margin is kept between the cursor and the viewport edge by
	// EnsureVisible, when the viewport is large enough.
	Margin int
}

// NewViewport creates a viewport of the given screen size at (0, 0).
func NewViewport(width, height int) *Viewport {
	return &Viewport{Width: max(width, 1), Height: max(height, 1), Margin: 2}
}

// Resize changes the screen size.
func (v *Viewport) Resize(width, height int) {
	v.Width, v.Height = max(width, 1), max(height, 1)
}

// Pan shifts the viewport by (dx, dy) canvas cells.
func (v *Viewport) Pan(dx, dy int) {
	v.X += dx
	v.Y += dy
}

// SetOrigin sets the origin marker.
func (v *Viewport) SetOrigin(x, y int) {
	v.OriginX, v.OriginY = x, y
}

// CenterOn scrolls so (x, y) is in the middle of the screen.
func (v *Viewport) CenterOn(x, y int) {
	v.X = x - v.Width/2
	v.Y = y - v.Height/2
}

// Visible reports whether (x, y) is on screen.
func (v *Viewport) Visible(x, y int) bool {
	return x >= v.X && x < v.X+v.Width && y >= v.Y && y < v.Y+v.Height
}

// EnsureVisible scrolls the minimum amount that keeps (x, y) on screen
// with the configured margin.
func (v *Viewport) EnsureVisible(x, y int) {
	mx := min(v.Margin, (v.Width-1)/2)
	my := min(v.Margin, (v.Height-1)/2)

	if x < v.X+mx {
		v.X = x - mx
	} else if x > v.X+v.Width-1-mx {
		v.X = x - v.Width + 1 + mx
	}
	if y < v.Y+my {
		v.Y = y - my
	} else if y > v.Y+v.Height-1-my {
		v.Y = y - v.Height + 1 + my
	}
}

// CanvasToScreen converts a canvas coordinate to a screen coordinate.
func (v *Viewport) CanvasToScreen(x, y int) (sx, sy int) {
	return x - v.X, y - v.Y
}

// ScreenToCanvas converts a screen coordinate to a canvas coordinate.
func (v *Viewport) ScreenToCanvas(sx, sy int) (x, y int) {
	return sx + v.X, sy + v.Y
}
