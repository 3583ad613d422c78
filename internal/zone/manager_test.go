package zone

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type fakeLifecycle struct {
	mu      sync.Mutex
	events  []string
	failFor string
	resized []string
}

func (f *fakeLifecycle) Start(z *Zone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "start "+z.Name())
	if z.Name() == f.failFor {
		return errors.New("bind failed")
	}
	return nil
}

func (f *fakeLifecycle) Stop(z *Zone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "stop "+z.Name())
}

func (f *fakeLifecycle) Resized(z *Zone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resized = append(f.resized, z.Name())
}

func TestCreateCaseInsensitiveUnique(t *testing.T) {
	m := NewManager()
	if _, err := m.Create("Logs", 0, 0, 10, 5, Config{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("logs", 20, 20, 10, 5, Config{}); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate Create error = %v, want ErrExists", err)
	}
	z, ok := m.Get("LOGS")
	if !ok || z.Name() != "Logs" {
		t.Errorf("Get(LOGS) = %v, %v", z, ok)
	}
}

func TestCreateValidation(t *testing.T) {
	m := NewManager()
	tests := []struct {
		name string
		w, h int
		cfg  Config
		want error
	}{
		{"", 5, 5, Config{}, ErrInvalidName},
		{"has space", 5, 5, Config{}, ErrInvalidName},
		{"flat", 5, 0, Config{}, ErrInvalidSize},
		{"neg", -1, 3, Config{}, ErrInvalidSize},
		{"p", 5, 5, Config{Type: TypePipe}, ErrInvalidConfig},
		{"w", 5, 5, Config{Type: TypeWatch, Command: "date"}, ErrInvalidConfig},
		{"s", 5, 5, Config{Type: TypeSocket, Port: 70000}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		if _, err := m.Create(tt.name, 0, 0, tt.w, tt.h, tt.cfg); !errors.Is(err, tt.want) {
			t.Errorf("Create(%q) error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after failed creates", m.Len())
	}
}

func TestLifecycleOrdering(t *testing.T) {
	life := &fakeLifecycle{failFor: "bad"}
	m := NewManager(WithLifecycle(life))

	if _, err := m.Create("good", 0, 0, 4, 4, Config{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("bad", 0, 0, 4, 4, Config{}); err == nil {
		t.Fatal("Create(bad) should fail")
	}
	if _, ok := m.Get("bad"); ok {
		t.Error("failed zone still registered")
	}
	if err := m.Delete("GOOD"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete("good"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v", err)
	}

	want := []string{"start good", "start bad", "stop bad", "stop good"}
	if !reflect.DeepEqual(life.events, want) {
		t.Errorf("events = %q, want %q", life.events, want)
	}
}

func TestFindAtCreationOrder(t *testing.T) {
	m := NewManager()
	_, _ = m.Create("first", 0, 0, 10, 10, Config{})
	_, _ = m.Create("second", 5, 5, 10, 10, Config{})

	tests := []struct {
		x, y int
		want string
	}{
		{1, 1, "first"},
		{7, 7, "first"},
		{12, 12, "second"},
		{9, 9, "first"},
		{10, 10, "second"},
	}
	for _, tt := range tests {
		z, ok := m.FindAt(tt.x, tt.y)
		if !ok || z.Name() != tt.want {
			t.Errorf("FindAt(%d,%d) = %v, want %s", tt.x, tt.y, z, tt.want)
		}
	}
	if _, ok := m.FindAt(-1, 0); ok {
		t.Error("FindAt outside all zones should miss")
	}
	if _, ok := m.FindAt(15, 15); ok {
		t.Error("FindAt on the far edge should miss")
	}
}

func TestNearestArrows(t *testing.T) {
	tests := []struct {
		name       string
		zx, zy     int
		wantArrow  rune
		wantDistSq float64
	}{
		{"right", 20, -1, ArrowRight, 20 * 20},
		{"left", -30, 0, ArrowLeft, 28 * 28},
		{"down", 0, 20, ArrowDown, 20 * 20},
		{"up", -1, -30, ArrowUp, 28 * 28},
		{"down right", 10, 10, ArrowDownRight, 100 + 100},
		{"up left", -12, -12, ArrowUpLeft, 10*10 + 10*10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			// A 3x3 zone centered on (zx+1, zy+1).
			_, _ = m.Create("z", tt.zx, tt.zy, 3, 3, Config{})
			got, ok := m.Nearest(0, 0, false)
			if !ok {
				t.Fatal("Nearest found nothing")
			}
			if got.Arrow != tt.wantArrow {
				t.Errorf("Arrow = %c, want %c", got.Arrow, tt.wantArrow)
			}
			if d := got.Distance * got.Distance; d < tt.wantDistSq-0.001 || d > tt.wantDistSq+0.001 {
				t.Errorf("Distance² = %v, want %v", d, tt.wantDistSq)
			}
		})
	}
}

func TestArrowDominance(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   rune
	}{
		{0, 0, ArrowCenter},
		{5, 2, ArrowRight},
		{4, 2, ArrowDownRight},
		{-2, -5, ArrowUp},
		{-2, -4, ArrowUpLeft},
		{3, -1, ArrowRight},
		{-1, 1, ArrowDownLeft},
		{1, -1, ArrowUpRight},
	}
	for _, tt := range tests {
		if got := Arrow(tt.dx, tt.dy); got != tt.want {
			t.Errorf("Arrow(%d,%d) = %c, want %c", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestNearestExcludeContaining(t *testing.T) {
	m := NewManager()
	_, _ = m.Create("here", 0, 0, 10, 10, Config{})
	_, _ = m.Create("there", 30, 0, 5, 5, Config{})

	got, _ := m.Nearest(2, 2, false)
	if got.Zone.Name() != "here" || got.Distance != 0 {
		t.Errorf("Nearest = %s %v", got.Zone.Name(), got.Distance)
	}
	got, _ = m.Nearest(2, 2, true)
	if got.Zone.Name() != "there" {
		t.Errorf("Nearest(exclude) = %s", got.Zone.Name())
	}
	if _, ok := NewManager().Nearest(0, 0, false); ok {
		t.Error("empty manager should find nothing")
	}
}

func TestRenameMoveResize(t *testing.T) {
	life := &fakeLifecycle{}
	m := NewManager(WithLifecycle(life))
	_, _ = m.Create("a", 0, 0, 5, 5, Config{})
	_, _ = m.Create("b", 0, 0, 5, 5, Config{})

	if err := m.Rename("a", "B"); !errors.Is(err, ErrExists) {
		t.Errorf("Rename onto existing = %v", err)
	}
	if err := m.Rename("a", "A"); err != nil {
		t.Errorf("case-only rename: %v", err)
	}
	if err := m.Rename("A", "alpha"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, ok := m.Get("a"); ok {
		t.Error("old name still resolves")
	}

	if err := m.Move("alpha", -3, 7); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := m.Resize("alpha", 20, 8); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	z, _ := m.Get("alpha")
	if x, y, w, h := z.Bounds(); x != -3 || y != 7 || w != 20 || h != 8 {
		t.Errorf("Bounds() = %d,%d,%d,%d", x, y, w, h)
	}
	if !reflect.DeepEqual(life.resized, []string{"alpha"}) {
		t.Errorf("resized = %q", life.resized)
	}
	if err := m.Resize("alpha", 0, 8); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize(0) = %v", err)
	}
}

func TestBookmarksUnique(t *testing.T) {
	m := NewManager()
	_, _ = m.Create("a", 0, 0, 5, 5, Config{})
	_, _ = m.Create("b", 0, 0, 5, 5, Config{})

	_ = m.SetBookmark("a", 'K')
	_ = m.SetBookmark("b", 'k')
	z, ok := m.FindByBookmark('K')
	if !ok || z.Name() != "b" {
		t.Errorf("FindByBookmark = %v", z)
	}
	if za, _ := m.Get("a"); za.Bookmark() != 0 {
		t.Error("bookmark not moved off zone a")
	}
	if err := m.SetBookmark("a", '!'); err == nil {
		t.Error("invalid bookmark key accepted")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	src := NewManager()
	_, _ = src.Create("shell", 1, 2, 40, 12, Config{Type: TypePTY})
	_, _ = src.Create("zsh", 1, 20, 40, 12, Config{Type: TypePTY, Shell: "/bin/zsh"})
	_, _ = src.Create("clock", -5, 0, 20, 3, Config{Type: TypeWatch, Command: "date", RefreshInterval: 1500 * time.Millisecond})
	_, _ = src.Create("feed", 0, 50, 30, 10, Config{Type: TypeFIFO, Path: "/tmp/feed"})
	_, _ = src.Create("net", 0, 70, 30, 10, Config{Type: TypeSocket, Port: 9999})
	_ = src.SetBookmark("clock", 'c')
	z, _ := src.Get("net")
	z.SetDescription("inbound events")

	records := src.Records()
	if records[0].Shell != "" {
		t.Errorf("default shell serialized as %q", records[0].Shell)
	}

	dst := NewManager()
	if err := dst.Load(records); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := dst.Records(); !reflect.DeepEqual(got, records) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, records)
	}

	clock, _ := dst.Get("clock")
	if cfg := clock.Config(); cfg.RefreshInterval != 1500*time.Millisecond || cfg.Command != "date" {
		t.Errorf("watch config = %+v", cfg)
	}
	if shell, _ := dst.Get("shell"); shell.Config().Shell != "" {
		t.Error("default shell not preserved as default")
	}
}

func TestLoadReportsBadRecords(t *testing.T) {
	m := NewManager()
	err := m.Load([]Record{
		{Name: "ok", Type: "static", Width: 3, Height: 3},
		{Name: "bad", Type: "hologram", Width: 3, Height: 3},
	})
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("Load error = %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want error
	}{
		{"static", Record{Name: "notes", Width: 4, Height: 2}, nil},
		{"watch", Record{Name: "clock", Type: "watch", Command: "date", Interval: 1, Width: 30, Height: 3}, nil},
		{"blank name", Record{Width: 4, Height: 2}, ErrInvalidName},
		{"zero height", Record{Name: "a", Width: 4}, ErrInvalidSize},
		{"unknown type", Record{Name: "a", Type: "tape", Width: 4, Height: 2}, ErrUnknownType},
		{"pipe without command", Record{Name: "a", Type: "pipe", Width: 4, Height: 2}, ErrInvalidConfig},
		{"long bookmark", Record{Name: "a", Width: 4, Height: 2, Bookmark: "ab"}, ErrInvalidConfig},
		{"symbol bookmark", Record{Name: "a", Width: 4, Height: 2, Bookmark: "!"}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
