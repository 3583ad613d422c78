package lua

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

// ErrReentrant is returned when a script tries to start another script,
// e.g. grid.cmd("lua ...").
var ErrReentrant = errors.New("lua script already running")

// Host is the editor surface scripts can reach through the grid module.
// All methods are called on the goroutine that called Run or Source.
type Host interface {
	// Execute runs a command line as if typed after ':'.
	Execute(line string) (ok bool, message string)
	Cell(x, y int) rune
	SetCell(x, y int, r rune)
	WriteText(x, y int, s string) int
	Cursor() (x, y int)
	MoveCursor(x, y int)
	Mode() string
}

// Runner executes scripts with a grid module bound to a Host. The Lua
// state persists between runs, so functions defined by one script can be
// called from the next.
type Runner struct {
	state   *State
	host    Host
	logger  *log.Logger
	out     bytes.Buffer
	running bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerOptions)

type runnerOptions struct {
	timeout time.Duration
	logger  *log.Logger
}

// WithTimeout bounds each run.
func WithTimeout(d time.Duration) RunnerOption {
	return func(o *runnerOptions) { o.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) RunnerOption {
	return func(o *runnerOptions) { o.logger = l }
}

// NewRunner creates a runner for host.
func NewRunner(host Host, opts ...RunnerOption) *Runner {
	o := runnerOptions{timeout: DefaultExecutionTimeout, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Runner{host: host, logger: o.logger}
	r.state = NewState(WithExecutionTimeout(o.timeout), WithOutput(&r.out))
	r.state.RegisterModule("grid", r.gridFuncs())
	return r
}

// Run executes a chunk and returns what it printed.
func (r *Runner) Run(code string) (string, error) {
	return r.do("chunk", func() error { return r.state.DoString(code) })
}

// Source executes a script file and returns what it printed.
func (r *Runner) Source(path string) (string, error) {
	return r.do(path, func() error { return r.state.DoFile(path) })
}

func (r *Runner) do(name string, fn func() error) (string, error) {
	if r.running {
		return "", ErrReentrant
	}
	r.running = true
	defer func() { r.running = false }()

	r.out.Reset()
	start := time.Now()
	err := fn()
	out := strings.TrimRight(r.out.String(), "\n")
	if err != nil {
		r.logger.Warn("lua script failed", "script", name, "err", err)
		return out, err
	}
	r.logger.Debug("lua script done", "script", name, "elapsed", time.Since(start))
	return out, nil
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	return r.state.Close()
}

func (r *Runner) gridFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"cmd":    r.luaCmd,
		"set":    r.luaSet,
		"get":    r.luaGet,
		"text":   r.luaText,
		"cursor": r.luaCursor,
		"move":   r.luaMove,
		"mode":   r.luaMode,
	}
}

// grid.cmd(line) -> ok, message
func (r *Runner) luaCmd(L *lua.LState) int {
	ok, msg := r.host.Execute(L.CheckString(1))
	L.Push(lua.LBool(ok))
	L.Push(lua.LString(msg))
	return 2
}

// grid.set(x, y, s) writes the first character of s; "" or " " clears.
func (r *Runner) luaSet(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	s := L.CheckString(3)
	ch := ' '
	if s != "" {
		ch, _ = utf8.DecodeRuneInString(s)
	}
	r.host.SetCell(x, y, ch)
	return 0
}

// grid.get(x, y) -> string, a space for an empty cell
func (r *Runner) luaGet(L *lua.LState) int {
	L.Push(lua.LString(string(r.host.Cell(L.CheckInt(1), L.CheckInt(2)))))
	return 1
}

// grid.text(x, y, s) -> cells written
func (r *Runner) luaText(L *lua.LState) int {
	n := r.host.WriteText(L.CheckInt(1), L.CheckInt(2), L.CheckString(3))
	L.Push(lua.LNumber(n))
	return 1
}

// grid.cursor() -> x, y
func (r *Runner) luaCursor(L *lua.LState) int {
	x, y := r.host.Cursor()
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

// grid.move(x, y)
func (r *Runner) luaMove(L *lua.LState) int {
	r.host.MoveCursor(L.CheckInt(1), L.CheckInt(2))
	return 0
}

// grid.mode() -> "NAV", "EDIT", ...
func (r *Runner) luaMode(L *lua.LState) int {
	L.Push(lua.LString(r.host.Mode()))
	return 1
}
