package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type point struct{ x, y int }

type fakeHost struct {
	cells  map[point]rune
	cx, cy int
	mode   string
	ran    []string
	runner *Runner
}

func newFakeHost() *fakeHost {
	return &fakeHost{cells: make(map[point]rune), mode: "NAV"}
}

func (h *fakeHost) Execute(line string) (bool, string) {
	h.ran = append(h.ran, line)
	if strings.HasPrefix(line, "lua ") && h.runner != nil {
		if _, err := h.runner.Run(strings.TrimPrefix(line, "lua ")); err != nil {
			return false, err.Error()
		}
		return true, ""
	}
	if line == "bad" {
		return false, "unknown command: bad"
	}
	return true, "did " + line
}

func (h *fakeHost) Cell(x, y int) rune {
	if r, ok := h.cells[point{x, y}]; ok {
		return r
	}
	return ' '
}

func (h *fakeHost) SetCell(x, y int, r rune) {
	if r == ' ' {
		delete(h.cells, point{x, y})
		return
	}
	h.cells[point{x, y}] = r
}

func (h *fakeHost) WriteText(x, y int, s string) int {
	n := 0
	for _, r := range s {
		h.SetCell(x+n, y, r)
		n++
	}
	return n
}

func (h *fakeHost) Cursor() (int, int)  { return h.cx, h.cy }
func (h *fakeHost) MoveCursor(x, y int) { h.cx, h.cy = x, y }
func (h *fakeHost) Mode() string        { return h.mode }

func newRunner(t *testing.T, h *fakeHost, opts ...RunnerOption) *Runner {
	t.Helper()
	r := NewRunner(h, opts...)
	h.runner = r
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestGridModule(t *testing.T) {
	h := newFakeHost()
	r := newRunner(t, h)

	out, err := r.Run(`
		for i = 0, 2 do grid.set(i, 0, "=") end
		grid.set(1, 0, "")
		local n = grid.text(0, 1, "héllo")
		grid.move(4, 5)
		local x, y = grid.cursor()
		print(n, x, y, grid.get(0, 0), grid.get(1, 0) == " ", grid.mode())
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "5\t4\t5\t=\ttrue\tNAV" {
		t.Errorf("output = %q", out)
	}
	if h.Cell(0, 0) != '=' || h.Cell(1, 0) != ' ' || h.Cell(2, 0) != '=' {
		t.Errorf("row 0 = %q%q%q", h.Cell(0, 0), h.Cell(1, 0), h.Cell(2, 0))
	}
	if h.Cell(1, 1) != 'é' {
		t.Errorf("text cell = %q", h.Cell(1, 1))
	}
}

func TestGridCmd(t *testing.T) {
	h := newFakeHost()
	r := newRunner(t, h)

	out, err := r.Run(`
		local ok, msg = grid.cmd("goto 1 2")
		print(ok, msg)
		ok, msg = grid.cmd("bad")
		print(ok, msg)
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "true\tdid goto 1 2\nfalse\tunknown command: bad"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if len(h.ran) != 2 {
		t.Errorf("ran = %v", h.ran)
	}
}

func TestStatePersistsBetweenRuns(t *testing.T) {
	r := newRunner(t, newFakeHost())
	if _, err := r.Run(`function twice(n) return n * 2 end`); err != nil {
		t.Fatal(err)
	}
	out, err := r.Run(`print(twice(21))`)
	if err != nil || out != "42" {
		t.Errorf("Run() = %q, %v", out, err)
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	r := newRunner(t, newFakeHost())
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		t.Run(name, func(t *testing.T) {
			out, err := r.Run(`print(type(` + name + `))`)
			if err != nil {
				t.Fatal(err)
			}
			if out != "nil" {
				t.Errorf("type(%s) = %q", name, out)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	r := newRunner(t, newFakeHost())
	if _, err := r.Run(`this is not lua`); err == nil {
		t.Error("syntax error not reported")
	}
	if _, err := r.Run(`grid.set("x")`); err == nil {
		t.Error("bad argument not reported")
	}
	if _, err := r.Run(`error("boom")`); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error() = %v", err)
	}
	// the state is still usable after a failure
	if out, err := r.Run(`print("ok")`); err != nil || out != "ok" {
		t.Errorf("Run after failure = %q, %v", out, err)
	}
}

func TestRunTimeout(t *testing.T) {
	r := newRunner(t, newFakeHost(), WithTimeout(100*time.Millisecond))
	start := time.Now()
	_, err := r.Run(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("Run() error = %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout took %s", time.Since(start))
	}
	if out, err := r.Run(`print(1)`); err != nil || out != "1" {
		t.Errorf("Run after timeout = %q, %v", out, err)
	}
}

func TestReentrantRunRejected(t *testing.T) {
	h := newFakeHost()
	r := newRunner(t, h)
	out, err := r.Run(`local ok, msg = grid.cmd("lua print(1)") print(ok, msg)`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "false\t"+ErrReentrant.Error() {
		t.Errorf("output = %q", out)
	}
}

func TestSource(t *testing.T) {
	h := newFakeHost()
	r := newRunner(t, h)
	path := filepath.Join(t.TempDir(), "box.lua")
	script := `for x = 0, 3 do grid.set(x, 0, "#") grid.set(x, 2, "#") end print("drawn")`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := r.Source(path)
	if err != nil || out != "drawn" {
		t.Fatalf("Source() = %q, %v", out, err)
	}
	if len(h.cells) != 8 {
		t.Errorf("cells = %d, want 8", len(h.cells))
	}
	if _, err := r.Source(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("missing file not reported")
	}
}

func TestClosedRunner(t *testing.T) {
	r := NewRunner(newFakeHost())
	_ = r.Close()
	if _, err := r.Run(`print(1)`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Run() after Close = %v", err)
	}
}
