package renderer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/gridstorm/internal/engine/canvas"
	"github.com/dshills/gridstorm/internal/input/mode"
	"github.com/dshills/gridstorm/internal/input/selection"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/zone"
)

// Glyphs drawn by the renderer.
const (
	GridDot      = '·'
	OriginMarker = '+'
)

var boxGlyphs = struct {
	h, v, tl, tr, bl, br rune
}{'─', '│', '┌', '┐', '└', '┘'}

// CellReader provides read access to canvas cells.
type CellReader interface {
	Get(x, y int) rune
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Canvas CellReader
	View   *canvas.Viewport

	// Zones in creation order; later zones paint over earlier ones.
	Zones []*zone.Zone

	// Focused is the PTY zone receiving keys, or nil.
	Focused *zone.Zone

	Mode             mode.Mode
	CursorX, CursorY int
	PenDown          bool
	Selection        *selection.Selection

	// CommandText and CommandCursor (a rune index) are shown in COMMAND mode.
	CommandText   string
	CommandCursor int

	Message string
	Error   bool

	// Nearby points at the closest zone. It is shown when that zone is
	// not on screen.
	Nearby    zone.Nearby
	HasNearby bool

	// GridStep draws a dot every GridStep cells; zero disables the grid.
	GridStep int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the theme.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// Renderer draws frames to a backend.
type Renderer struct {
	backend backend.Backend
	theme   Theme
}

// New creates a renderer drawing to b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{backend: b, theme: DefaultTheme()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend returns the backend.
func (r *Renderer) Backend() backend.Backend {
	return r.backend
}

// CanvasSize returns the viewport size for a screen of width x height,
// leaving the last row to the status line.
func CanvasSize(width, height int) (int, int) {
	return max(width, 1), max(height-1, 1)
}

// Draw paints f and shows the result.
func (r *Renderer) Draw(f *Frame) {
	b := r.backend
	b.Clear()
	w, h := b.Size()
	cw, ch := CanvasSize(w, h)

	r.drawCanvas(f, cw, ch)
	for _, z := range f.Zones {
		r.drawZone(f, z, cw, ch)
	}
	r.drawSelection(f, cw, ch)

	cursorX, cursorY, showCursor := r.drawStatus(f, w, h)
	if !showCursor {
		cursorX, cursorY, showCursor = r.cursorPosition(f, cw, ch)
	}
	if showCursor {
		b.ShowCursor(cursorX, cursorY)
	} else {
		b.HideCursor()
	}
	b.Show()
}

func (r *Renderer) drawCanvas(f *Frame, cw, ch int) {
	v := f.View
	for sy := range ch {
		for sx := range cw {
			x, y := v.ScreenToCanvas(sx, sy)
			c := ' '
			if f.Canvas != nil {
				c = f.Canvas.Get(x, y)
			}
			switch {
			case c != ' ':
				r.backend.SetCell(sx, sy, c, r.theme.Cell)
			case x == v.OriginX && y == v.OriginY:
				r.backend.SetCell(sx, sy, OriginMarker, r.theme.Origin)
			case f.GridStep > 0 && mod(x, f.GridStep) == 0 && mod(y, f.GridStep) == 0:
				r.backend.SetCell(sx, sy, GridDot, r.theme.Grid)
			}
		}
	}
}

func (r *Renderer) drawZone(f *Frame, z *zone.Zone, cw, ch int) {
	zx, zy, zw, zh := z.Bounds()
	sx, sy := f.View.CanvasToScreen(zx, zy)
	if sx >= cw || sy >= ch || sx+zw <= 0 || sy+zh <= 0 {
		return
	}

	inert, _ := z.Inert()
	border := r.theme.Border
	switch {
	case inert:
		border = r.theme.InertBorder
	case z == f.Focused:
		border = r.theme.FocusedBorder
	}

	// interior first so the border wins on degenerate sizes
	ix, iy, iw, ih := z.Interior()
	isx, isy := f.View.CanvasToScreen(ix, iy)
	for row := range ih {
		for col := range iw {
			r.setClipped(isx+col, isy+row, ' ', r.theme.ZoneText, cw, ch)
		}
	}
	for row, line := range z.View(ih) {
		r.putString(isx, isy+row, line, r.theme.ZoneText, iw, cw, ch)
	}

	g := boxGlyphs
	for col := 1; col < zw-1; col++ {
		r.setClipped(sx+col, sy, g.h, border, cw, ch)
		r.setClipped(sx+col, sy+zh-1, g.h, border, cw, ch)
	}
	for row := 1; row < zh-1; row++ {
		r.setClipped(sx, sy+row, g.v, border, cw, ch)
		r.setClipped(sx+zw-1, sy+row, g.v, border, cw, ch)
	}
	r.setClipped(sx, sy, g.tl, border, cw, ch)
	r.setClipped(sx+zw-1, sy, g.tr, border, cw, ch)
	r.setClipped(sx, sy+zh-1, g.bl, border, cw, ch)
	r.setClipped(sx+zw-1, sy+zh-1, g.br, border, cw, ch)

	if zw > 2 {
		r.putString(sx+1, sy, ZoneLabel(z, zw-2), r.theme.Label, zw-2, cw, ch)
	}
}

// ZoneLabel returns the border label of z fitted to width cells.
func ZoneLabel(z *zone.Zone, width int) string {
	label := z.Name()
	if t := z.Type(); t != zone.TypeStatic {
		label += " [" + t.String() + "]"
	}
	if k := z.Bookmark(); k != 0 {
		label += fmt.Sprintf(" '%c", k)
	}
	if inert, _ := z.Inert(); inert {
		label += " (dead)"
	}
	return runewidth.Truncate(label, width, "…")
}

func (r *Renderer) drawSelection(f *Frame, cw, ch int) {
	if f.Selection == nil {
		return
	}
	x1, y1, x2, y2 := f.Selection.Bounds()
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			sx, sy := f.View.CanvasToScreen(x, y)
			if sx < 0 || sy < 0 || sx >= cw || sy >= ch {
				continue
			}
			c, _ := r.backend.GetCell(sx, sy)
			r.backend.SetCell(sx, sy, c, r.theme.Selection)
		}
	}
}

// drawStatus paints the last row. In COMMAND mode it returns the
// command-line cursor position.
func (r *Renderer) drawStatus(f *Frame, w, h int) (int, int, bool) {
	y := h - 1
	if y < 0 {
		return 0, 0, false
	}
	for x := range w {
		r.backend.SetCell(x, y, ' ', r.theme.Status)
	}

	if f.Mode == mode.ModeCommand {
		text := []rune(f.CommandText)
		pos := min(max(f.CommandCursor, 0), len(text))
		r.putString(0, y, ":"+string(text), r.theme.Status, w, w, h)
		return min(1+runewidth.StringWidth(string(text[:pos])), w-1), y, true
	}

	x := r.putString(0, y, " "+f.Mode.String()+" ", r.theme.ModeStyle(f.Mode), w, w, h)
	info := fmt.Sprintf(" %d,%d", f.CursorX, f.CursorY)
	if f.Mode == mode.ModeDraw {
		if f.PenDown {
			info += " pen:down"
		} else {
			info += " pen:up"
		}
	}
	if f.Focused != nil {
		info += " [" + f.Focused.Name() + "]"
	}
	x += r.putString(x, y, info, r.theme.Status, w-x, w, h)

	right := r.nearbyText(f)
	rw := runewidth.StringWidth(right)

	if f.Message != "" {
		style := r.theme.Message
		if f.Error {
			style = r.theme.Error
		}
		room := w - x - 2 - rw
		if room > 0 {
			x += 2
			r.putString(x, y, runewidth.Truncate(f.Message, room, "…"), style, room, w, h)
		}
	}
	if right != "" && rw < w {
		r.putString(w-rw, y, right, r.theme.Arrow, rw, w, h)
	}
	return 0, 0, false
}

func (r *Renderer) nearbyText(f *Frame) string {
	if !f.HasNearby || f.Nearby.Zone == nil {
		return ""
	}
	zx, zy, zw, zh := f.Nearby.Zone.Bounds()
	v := f.View
	if zx < v.X+v.Width && zx+zw > v.X && zy < v.Y+v.Height && zy+zh > v.Y {
		return ""
	}
	return fmt.Sprintf("%c %s %.0f ", f.Nearby.Arrow, f.Nearby.Zone.Name(), f.Nearby.Distance)
}

// cursorPosition returns where the terminal cursor goes outside COMMAND
// mode: inside the focused PTY, or on the canvas cursor.
func (r *Renderer) cursorPosition(f *Frame, cw, ch int) (int, int, bool) {
	if z := f.Focused; z != nil {
		if src := z.Source(); src != nil && z.ScrollOffset() == 0 {
			ix, iy, iw, ih := z.Interior()
			cx, cy := src.Cursor()
			if cx >= 0 && cy >= 0 && cx < iw && cy < ih {
				sx, sy := f.View.CanvasToScreen(ix+cx, iy+cy)
				if sx >= 0 && sy >= 0 && sx < cw && sy < ch {
					return sx, sy, true
				}
			}
		}
		return 0, 0, false
	}
	sx, sy := f.View.CanvasToScreen(f.CursorX, f.CursorY)
	if sx < 0 || sy < 0 || sx >= cw || sy >= ch {
		return 0, 0, false
	}
	return sx, sy, true
}

func (r *Renderer) setClipped(x, y int, c rune, style tcell.Style, cw, ch int) {
	if x >= 0 && y >= 0 && x < cw && y < ch {
		r.backend.SetCell(x, y, c, style)
	}
}

// putString draws s from (x, y) using at most limit cells, clipped to
// cw x ch. It returns the cells consumed.
func (r *Renderer) putString(x, y int, s string, style tcell.Style, limit, cw, ch int) int {
	used := 0
	for _, c := range s {
		rw := runewidth.RuneWidth(c)
		if rw == 0 {
			continue
		}
		if used+rw > limit {
			break
		}
		r.setClipped(x+used, y, c, style, cw, ch)
		if rw == 2 {
			r.setClipped(x+used+1, y, 0, style, cw, ch)
		}
		used += rw
	}
	return used
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
