package live

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/integration/process"
	"github.com/dshills/gridstorm/internal/integration/terminal"
	"github.com/dshills/gridstorm/internal/zone"
)

// Sentinel errors.
var (
	// ErrNotLive is returned when a zone has no running background work.
	ErrNotLive = errors.New("zone is not live")

	// ErrUnsupported is returned when an operation does not apply to the
	// zone's type, e.g. sending keys to a pipe zone.
	ErrUnsupported = errors.New("operation not supported by zone type")

	// ErrInactive is returned when a shell zone's session has died.
	ErrInactive = errors.New("zone session is no longer active")
)

// Config holds executor settings.
type Config struct {
	// Shell runs pipe and watch commands and is the default for shell
	// zones. Empty selects process.DefaultShell.
	Shell string

	// CaptureTimeout bounds a single pipe or watch run.
	CaptureTimeout time.Duration

	// Backend selects the terminal emulator for shell zones.
	Backend string

	// Scrollback bounds each shell zone's scrollback.
	Scrollback int

	// PollInterval bounds how long fifo and socket readers wait before
	// checking for shutdown.
	PollInterval time.Duration

	// ReconnectInterval is the minimum time between attempts to reopen a
	// lost fifo or socket listener.
	ReconnectInterval time.Duration
}

// DefaultConfig returns the default executor settings.
func DefaultConfig() Config {
	return Config{
		CaptureTimeout:    process.DefaultCaptureTimeout,
		Backend:           terminal.BackendBuiltin,
		Scrollback:        terminal.DefaultScrollback,
		PollInterval:      200 * time.Millisecond,
		ReconnectInterval: 2 * time.Second,
	}
}

// runner is the background work behind one zone.
type runner interface {
	stop()
}

// Executor runs the background work behind live zones. It implements
// zone.Lifecycle and zone.Resizer.
//
// Work is tracked per *zone.Zone, so renaming a zone keeps its runner.
type Executor struct {
	cfg    Config
	sup    *process.Supervisor
	logger *log.Logger

	mu      sync.Mutex
	runners map[*zone.Zone]runner
	closed  bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an executor that starts child processes through sup.
func New(cfg Config, sup *process.Supervisor, opts ...Option) *Executor {
	def := DefaultConfig()
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = def.CaptureTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = def.ReconnectInterval
	}
	if sup == nil {
		sup = process.NewSupervisor()
	}
	e := &Executor{
		cfg:     cfg,
		sup:     sup,
		logger:  log.New(io.Discard),
		runners: make(map[*zone.Zone]runner),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the executor settings.
func (e *Executor) Config() Config {
	return e.cfg
}

// Start begins the zone's background work. Bind, open and spawn failures
// are returned so that zone creation fails.
func (e *Executor) Start(z *zone.Zone) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.New("executor is shut down")
	}
	if _, running := e.runners[z]; running {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	var (
		r   runner
		err error
	)
	switch cfg := z.Config(); cfg.Type {
	case zone.TypeStatic:
		return nil
	case zone.TypePipe:
		r = e.startCommand(z, cfg.Command, 0)
	case zone.TypeWatch:
		r = e.startCommand(z, cfg.Command, cfg.RefreshInterval)
	case zone.TypePTY:
		r, err = e.startPTY(z, cfg.Shell)
	case zone.TypeFIFO:
		r, err = e.startFIFO(z, cfg.Path)
	case zone.TypeSocket:
		r, err = e.startSocket(z, cfg.Port)
	default:
		return fmt.Errorf("%w: %s", zone.ErrUnknownType, cfg.Type)
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.runners[z] = r
	e.mu.Unlock()
	e.logger.Debug("zone started", "name", z.Name(), "type", z.Type())
	return nil
}

// Stop ends the zone's background work and waits for it to finish.
func (e *Executor) Stop(z *zone.Zone) {
	e.mu.Lock()
	r, ok := e.runners[z]
	delete(e.runners, z)
	e.mu.Unlock()
	if !ok {
		return
	}
	r.stop()
	e.logger.Debug("zone stopped", "name", z.Name())
}

// Resized propagates a new zone size to a shell zone's terminal.
func (e *Executor) Resized(z *zone.Zone) {
	r, ok := e.runner(z).(*ptyRunner)
	if !ok {
		return
	}
	_, _, w, h := z.Interior()
	if err := r.session.Resize(w, h); err != nil {
		e.logger.Debug("resize shell zone", "name", z.Name(), "err", err)
	}
}

func (e *Executor) runner(z *zone.Zone) runner {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runners[z]
}

// Refresh re-runs a pipe or watch zone's command.
func (e *Executor) Refresh(z *zone.Zone) error {
	switch r := e.runner(z).(type) {
	case *commandRunner:
		r.refresh()
		return nil
	case nil:
		return fmt.Errorf("%w: %s", ErrNotLive, z.Name())
	default:
		return fmt.Errorf("%w: refresh %s zone", ErrUnsupported, z.Type())
	}
}

// Send types text into a shell zone followed by a carriage return.
func (e *Executor) Send(z *zone.Zone, text string) error {
	r, err := e.activePTY(z)
	if err != nil {
		return err
	}
	_, err = r.session.WriteString(text + "\r")
	return err
}

// Write types text into a shell zone exactly as given.
func (e *Executor) Write(z *zone.Zone, text string) error {
	r, err := e.activePTY(z)
	if err != nil {
		return err
	}
	_, err = r.session.WriteString(text)
	return err
}

// SendKey forwards a key press to a shell zone.
func (e *Executor) SendKey(z *zone.Zone, ev key.Event) error {
	r, err := e.activePTY(z)
	if err != nil {
		return err
	}
	return r.session.SendKey(ev)
}

// Scroll moves a shell zone's view into its scrollback by delta lines,
// clamped to the available history, and returns the new offset.
func (e *Executor) Scroll(z *zone.Zone, delta int) int {
	r, ok := e.runner(z).(*ptyRunner)
	if !ok {
		return z.Scroll(delta)
	}
	limit := r.session.ScrollbackLen()
	cur := z.ScrollOffset()
	target := min(max(cur+delta, 0), limit)
	return z.Scroll(target - cur)
}

// IsActive reports whether the zone's background work is alive. A shell
// zone whose session died is marked inert here.
func (e *Executor) IsActive(z *zone.Zone) bool {
	switch r := e.runner(z).(type) {
	case nil:
		return false
	case *ptyRunner:
		return r.check()
	case *fifoRunner:
		return r.active()
	case *socketRunner:
		return r.active()
	default:
		return true
	}
}

func (e *Executor) activePTY(z *zone.Zone) (*ptyRunner, error) {
	switch r := e.runner(z).(type) {
	case *ptyRunner:
		if !r.check() {
			return nil, fmt.Errorf("%w: %s", ErrInactive, z.Name())
		}
		return r, nil
	case nil:
		if z.Type() == zone.TypePTY {
			return nil, fmt.Errorf("%w: %s", ErrInactive, z.Name())
		}
	}
	return nil, fmt.Errorf("%w: %s is a %s zone", ErrUnsupported, z.Name(), z.Type())
}

// Live returns the number of zones with running background work.
func (e *Executor) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.runners)
}

// Shutdown stops every zone and refuses further starts.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	e.closed = true
	runners := e.runners
	e.runners = make(map[*zone.Zone]runner)
	e.mu.Unlock()

	var wg sync.WaitGroup
	for _, r := range runners {
		wg.Add(1)
		go func(r runner) {
			defer wg.Done()
			r.stop()
		}(r)
	}
	wg.Wait()
	e.logger.Debug("executor shut down", "zones", len(runners))
}
