package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/gridstorm/internal/engine/canvas"
	"github.com/dshills/gridstorm/internal/input/mode"
	"github.com/dshills/gridstorm/internal/input/selection"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/zone"
)

type fakeSource struct {
	lines  []string
	cx, cy int
}

func (s *fakeSource) Lines(int) []string { return s.lines }
func (s *fakeSource) Cursor() (int, int) { return s.cx, s.cy }

func setup(t *testing.T, w, h int) (*Renderer, *backend.NullBackend, *Frame) {
	t.Helper()
	b := backend.NewNullBackend(w, h)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	cw, ch := CanvasSize(w, h)
	f := &Frame{
		Canvas: canvas.New(),
		View:   canvas.NewViewport(cw, ch),
		Mode:   mode.ModeNav,
	}
	return New(b), b, f
}

func TestDrawCanvasAndGrid(t *testing.T) {
	r, b, f := setup(t, 20, 6)
	f.Canvas.(*canvas.Canvas).Set(3, 1, 'A')
	f.GridStep = 4

	r.Draw(f)

	if got, want := b.Row(0), "+   ·   ·   ·   ·   "; got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if got, want := b.Row(1), "   A                "; got != want {
		t.Errorf("row 1 = %q, want %q", got, want)
	}
}

func TestDrawPannedViewport(t *testing.T) {
	r, b, f := setup(t, 10, 3)
	c := f.Canvas.(*canvas.Canvas)
	c.Set(-5, -1, 'Q')
	f.View.Pan(-6, -1)

	r.Draw(f)

	if got, want := b.Row(0), " Q        "; got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	// the origin is now at screen (6, 1)
	if got, _ := b.GetCell(6, 1); got != OriginMarker {
		t.Errorf("origin cell = %q", got)
	}
}

func TestDrawZone(t *testing.T) {
	r, b, f := setup(t, 20, 6)
	m := zone.NewManager()
	z, err := m.Create("log", 1, 1, 8, 4, zone.Config{})
	if err != nil {
		t.Fatal(err)
	}
	z.SetContent([]string{"hello world", "b"})
	f.Zones = m.List()

	r.Draw(f)

	want := []string{
		" ┌log───┐           ",
		" │hello │           ",
		" │b     │           ",
		" └──────┘           ",
	}
	for i, w := range want {
		if got := b.Row(i + 1); got != w {
			t.Errorf("row %d = %q, want %q", i+1, got, w)
		}
	}
}

func TestDrawZoneClipped(t *testing.T) {
	r, b, f := setup(t, 6, 4)
	m := zone.NewManager()
	if _, err := m.Create("big", -2, -1, 6, 3, zone.Config{}); err != nil {
		t.Fatal(err)
	}
	f.Zones = m.List()

	r.Draw(f)

	if got, want := b.Row(0), "   │  "; got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if got, want := b.Row(1), "───┘  "; got != want {
		t.Errorf("row 1 = %q, want %q", got, want)
	}
}

func TestZoneLabel(t *testing.T) {
	m := zone.NewManager()
	z, err := m.Create("averylongname", 0, 0, 10, 3, zone.Config{Type: zone.TypePipe, Command: "date"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ZoneLabel(z, 40); got != "averylongname [pipe]" {
		t.Errorf("ZoneLabel = %q", got)
	}
	if got := ZoneLabel(z, 8); got != "averylo…" {
		t.Errorf("truncated ZoneLabel = %q", got)
	}
	z.MarkInert("exited")
	if got := ZoneLabel(z, 40); !strings.HasSuffix(got, "(dead)") {
		t.Errorf("inert ZoneLabel = %q", got)
	}
}

func TestDrawStatus(t *testing.T) {
	r, b, f := setup(t, 40, 4)
	f.CursorX, f.CursorY = 3, 2
	f.Message = "saved"

	r.Draw(f)

	if got := b.Row(3); !strings.HasPrefix(got, " NAV  3,2  saved") {
		t.Errorf("status = %q", got)
	}
	_, style := b.GetCell(1, 3)
	if style != r.theme.ModeStyle(mode.ModeNav) {
		t.Error("mode name not drawn in mode style")
	}
	x, y, visible := b.CursorPosition()
	if !visible || x != 3 || y != 2 {
		t.Errorf("cursor = (%d, %d, %v)", x, y, visible)
	}
}

func TestDrawStatusPenAndError(t *testing.T) {
	r, b, f := setup(t, 40, 4)
	f.Mode = mode.ModeDraw
	f.PenDown = true
	f.Message = "boom"
	f.Error = true

	r.Draw(f)

	status := b.Row(3)
	if !strings.HasPrefix(status, " DRAW  0,0 pen:down  boom") {
		t.Errorf("status = %q", status)
	}
	i := strings.Index(status, "boom")
	if _, style := b.GetCell(i, 3); style != r.theme.Error {
		t.Error("error message not drawn in error style")
	}
}

func TestDrawCommandLine(t *testing.T) {
	r, b, f := setup(t, 30, 4)
	f.Mode = mode.ModeCommand
	f.CommandText = "goto 1"
	f.CommandCursor = 4

	r.Draw(f)

	if got := b.Row(3); !strings.HasPrefix(got, ":goto 1 ") {
		t.Errorf("command line = %q", got)
	}
	x, y, visible := b.CursorPosition()
	if !visible || x != 5 || y != 3 {
		t.Errorf("cursor = (%d, %d, %v), want (5, 3, true)", x, y, visible)
	}
}

func TestDrawNearbyArrow(t *testing.T) {
	r, b, f := setup(t, 40, 4)
	m := zone.NewManager()
	if _, err := m.Create("far", 100, 2, 4, 3, zone.Config{}); err != nil {
		t.Fatal(err)
	}
	f.Zones = m.List()
	f.Nearby, f.HasNearby = m.Nearest(0, 0, true)

	r.Draw(f)

	if got := b.Row(3); !strings.HasSuffix(got, "→ far 100 ") {
		t.Errorf("status = %q", got)
	}

	// no arrow once the zone is on screen
	f.View.Pan(98, 0)
	r.Draw(f)
	if got := b.Row(3); strings.Contains(got, "far") {
		t.Errorf("status with visible zone = %q", got)
	}
}

func TestDrawSelection(t *testing.T) {
	r, b, f := setup(t, 10, 4)
	f.Canvas.(*canvas.Canvas).Set(1, 1, 'x')
	f.Selection = selection.New(1, 1)
	f.Selection.Update(2, 2)

	r.Draw(f)

	for _, p := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		if _, style := b.GetCell(p[0], p[1]); style != r.theme.Selection {
			t.Errorf("cell %v not highlighted", p)
		}
	}
	if c, _ := b.GetCell(1, 1); c != 'x' {
		t.Errorf("highlight replaced cell content: %q", c)
	}
	if _, style := b.GetCell(3, 1); style == r.theme.Selection {
		t.Error("cell outside the selection highlighted")
	}
}

func TestFocusedZoneCursor(t *testing.T) {
	r, b, f := setup(t, 20, 8)
	m := zone.NewManager()
	z, err := m.Create("sh", 2, 1, 10, 5, zone.Config{Type: zone.TypePTY})
	if err != nil {
		t.Fatal(err)
	}
	z.AttachSource(&fakeSource{lines: []string{"$ ls"}, cx: 4, cy: 0})
	f.Zones = m.List()
	f.Focused = z

	r.Draw(f)

	if got := b.Row(2); !strings.HasPrefix(got, "  │$ ls") {
		t.Errorf("row 2 = %q", got)
	}
	x, y, visible := b.CursorPosition()
	if !visible || x != 7 || y != 2 {
		t.Errorf("cursor = (%d, %d, %v), want (7, 2, true)", x, y, visible)
	}
	if _, style := b.GetCell(2, 1); style != r.theme.FocusedBorder {
		t.Error("focused border style not used")
	}
}

func TestCursorOffScreenHidden(t *testing.T) {
	r, b, f := setup(t, 10, 4)
	f.CursorX = 50
	r.Draw(f)
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor outside the viewport should be hidden")
	}
}
