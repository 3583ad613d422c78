// Package app wires gridstorm together and runs the host loop.
//
// All editor state (canvas, mode machine, zones' geometry, bookmarks) is
// owned by the goroutine running Run. Terminal input, control requests,
// joystick events and config reloads arrive on channels and are handled
// one at a time on that goroutine. Zone content is the exception: live
// zones write it from their own goroutines and the renderer reads it.
package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/control"
	"github.com/dshills/gridstorm/internal/engine/canvas"
	"github.com/dshills/gridstorm/internal/engine/history"
	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/input/keymap"
	"github.com/dshills/gridstorm/internal/input/mode"
	"github.com/dshills/gridstorm/internal/integration/joystick"
	"github.com/dshills/gridstorm/internal/integration/process"
	"github.com/dshills/gridstorm/internal/layout"
	"github.com/dshills/gridstorm/internal/plugin/lua"
	"github.com/dshills/gridstorm/internal/renderer"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/zone"
	"github.com/dshills/gridstorm/internal/zone/live"
)

// Timing of the host loop.
const (
	FrameRate     = 30
	frameInterval = time.Second / FrameRate

	// messageFrames is how long a status message stays up.
	messageFrames = 3 * FrameRate

	shutdownTimeout = 3 * time.Second
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses config.DefaultPath.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath and is not
	// watched for changes.
	Config *config.Config

	// ProjectPath is opened on startup if it exists and is the default
	// target of save.
	ProjectPath string

	// LayoutPath is a layout template applied on startup.
	LayoutPath string

	// LogLevel and LogFile override the [logging] section when set.
	LogLevel string
	LogFile  string

	// ControlAddr enables the control server on this address.
	ControlAddr string

	// Joystick enables the joystick monitor.
	Joystick bool

	// Logger overrides the logger built from the config.
	Logger *log.Logger
}

// Application is the central coordinator for all gridstorm components.
type Application struct {
	opts   Options
	cfg    *config.Config
	logger *log.Logger
	logOut io.Closer

	// editor model
	canvas  *canvas.Canvas
	view    *canvas.Viewport
	history *history.History
	machine *mode.Machine
	keys    *keymap.Translator

	// zones
	sup   *process.Supervisor
	exec  *live.Executor
	zones *zone.Manager

	// collaborators
	backend  backend.Backend
	renderer *renderer.Renderer
	control  *control.Server
	joystick *joystick.Monitor
	watcher  *config.Watcher
	scripts  *lua.Runner

	// loop state
	focused     *zone.Zone
	unfocusKey  key.Event
	projectPath string
	clipboard   []string
	gridStep    int

	message      string
	messageError bool
	messageTTL   int
	quit         bool

	running   atomic.Bool
	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
}

// New creates an application and starts its background services.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg := app.opts.Config
	if cfg == nil {
		path := app.opts.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	app.cfg = cfg.Clone()
	if app.opts.LogLevel != "" {
		app.cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		app.cfg.Logging.File = app.opts.LogFile
	}
	if app.opts.ControlAddr != "" {
		app.cfg.Control.Enabled = true
		app.cfg.Control.Addr = app.opts.ControlAddr
	}
	if app.opts.Joystick {
		app.cfg.Joystick.Enabled = true
	}
	if err := app.cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	// 2. Logging
	if app.opts.Logger != nil {
		app.logger = app.opts.Logger
		app.logOut = nopCloser{}
	} else {
		logger, closer, err := NewLogger(app.cfg.LogLevel(), app.cfg.Logging.File)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		app.logger, app.logOut = logger, closer
	}
	app.logger.Info("starting", "pid", os.Getpid())

	// 3. Editor model
	app.canvas = canvas.New()
	app.view = canvas.NewViewport(80, 24)
	app.history = history.NewHistory(history.DefaultMaxEntries)
	app.machine = mode.New(app.canvas, app.view, app.history, machineOptions(app.cfg))
	app.machine.OnChange(func(from, to mode.Mode) {
		app.logger.Debug("mode", "from", from, "to", to)
	})
	if err := app.applyKeys(app.cfg); err != nil {
		return &InitError{Component: "keymap", Err: err}
	}
	app.gridStep = app.cfg.Canvas.Grid

	// 4. Zones
	app.sup = process.NewSupervisor(process.WithLogger(app.logger.WithPrefix("process")))
	app.exec = live.New(executorConfig(app.cfg), app.sup,
		live.WithLogger(app.logger.WithPrefix("zones")))
	app.zones = zone.NewManager(
		zone.WithLifecycle(app.exec),
		zone.WithLogger(app.logger.WithPrefix("zones")),
		zone.WithMaxLines(app.cfg.Zones.MaxLines),
	)

	// 5. Commands and scripting
	app.scripts = lua.NewRunner(&scriptHost{app: app},
		lua.WithLogger(app.logger.WithPrefix("lua")))
	app.registerCommands()

	// 6. Startup documents
	app.projectPath = app.opts.ProjectPath
	if p := app.projectPath; p != "" {
		if _, err := os.Stat(p); err == nil {
			if err := app.openProject(p); err != nil {
				return &InitError{Component: "project", Err: err}
			}
		}
	}
	if p := app.opts.LayoutPath; p != "" {
		l, err := layout.Load(p)
		if err != nil {
			return &InitError{Component: "layout", Err: err}
		}
		if err := app.applyLayout(l); err != nil {
			app.setError(err.Error())
		}
	}

	// 7. Outside inputs
	if app.cfg.Control.Enabled {
		srv, err := control.Listen(app.cfg.Control.Addr,
			control.WithLogger(app.logger.WithPrefix("control")))
		if err != nil {
			return &InitError{Component: "control", Err: err}
		}
		app.control = srv
	}
	if app.cfg.Joystick.Enabled {
		app.joystick = joystick.NewMonitor(joystick.Config{
			Device:            app.cfg.Joystick.Device,
			ReconnectInterval: app.cfg.Joystick.ReconnectInterval.Std(),
			MaxReconnects:     app.cfg.Joystick.MaxReconnects,
			Deadzone:          app.cfg.Joystick.Deadzone,
		}, joystick.WithLogger(app.logger.WithPrefix("joystick")))
		app.joystick.Start()
	}
	if app.opts.Config == nil {
		app.startWatcher()
	}
	return nil
}

func (app *Application) startWatcher() {
	path := app.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return
	}
	w, err := config.Watch(path, config.WithLogger(app.logger.WithPrefix("config")))
	if err != nil {
		// the config directory may not exist; reloads are optional
		app.logger.Debug("config watch unavailable", "path", path, "err", err)
		return
	}
	app.watcher = w
}

func machineOptions(cfg *config.Config) mode.Options {
	dx, dy := cfg.Advance()
	return mode.Options{
		MoveStep: cfg.Canvas.MoveStep,
		FastStep: cfg.Canvas.FastStep,
		AdvanceX: dx,
		AdvanceY: dy,
	}
}

func executorConfig(cfg *config.Config) live.Config {
	ec := live.DefaultConfig()
	ec.Shell = cfg.Terminal.Shell
	ec.Backend = cfg.Terminal.Backend
	ec.Scrollback = cfg.Terminal.Scrollback
	ec.CaptureTimeout = cfg.Zones.CommandTimeout.Std()
	return ec
}

// applyKeys rebuilds the key translator and the unfocus key from cfg.
func (app *Application) applyKeys(cfg *config.Config) error {
	t := keymap.NewDefault()
	if err := t.Apply(cfg.Keys); err != nil {
		return err
	}
	unfocus, err := key.Parse(cfg.Zones.UnfocusKey)
	if err != nil {
		return err
	}
	app.keys = t
	app.unfocusKey = unfocus.Binding()
	return nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	app.renderer = renderer.New(b)
	return nil
}

// Run initializes the backend and runs the host loop until quit or
// Shutdown. Every zone is torn down before Run returns.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.backend == nil {
		return ErrNoBackend
	}
	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	app.resize(app.backend.Size())

	err := app.eventLoop()
	app.Close()
	app.backend.Shutdown()
	return err
}

// Shutdown asks a running loop to stop. Safe from any goroutine.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() { close(app.done) })
}

// Close releases every resource: zones, child processes, listeners and
// the log file. It is idempotent.
func (app *Application) Close() {
	app.closeOnce.Do(app.close)
}

// close performs cleanup in reverse initialization order.
func (app *Application) close() {
	if app.joystick != nil {
		app.joystick.Stop()
	}
	if app.control != nil {
		if err := app.control.Close(); err != nil {
			app.logger.Warn("closing control server", "err", err)
		}
	}
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	app.focused = nil
	if app.zones != nil {
		app.zones.Close()
	}
	if app.exec != nil {
		app.exec.Shutdown()
	}
	if app.sup != nil {
		app.sup.Shutdown(shutdownTimeout)
	}
	if app.scripts != nil {
		_ = app.scripts.Close()
	}
	if app.logger != nil {
		app.logger.Info("stopped")
	}
	if app.logOut != nil {
		_ = app.logOut.Close()
	}
}

// Machine returns the mode machine.
func (app *Application) Machine() *mode.Machine {
	return app.machine
}

// Canvas returns the canvas.
func (app *Application) Canvas() *canvas.Canvas {
	return app.canvas
}

// Viewport returns the viewport.
func (app *Application) Viewport() *canvas.Viewport {
	return app.view
}

// Zones returns the zone manager.
func (app *Application) Zones() *zone.Manager {
	return app.zones
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Message returns the status message and whether it is an error.
func (app *Application) Message() (string, bool) {
	return app.message, app.messageError
}

// Focused returns the zone receiving keys, or nil.
func (app *Application) Focused() *zone.Zone {
	return app.focused
}

// QuitRequested reports whether a command asked to exit.
func (app *Application) QuitRequested() bool {
	return app.quit
}

func (app *Application) setMessage(format string, args ...any) {
	app.message = fmt.Sprintf(format, args...)
	app.messageError = false
	app.messageTTL = messageFrames
}

func (app *Application) setError(msg string) {
	app.message = msg
	app.messageError = true
	app.messageTTL = messageFrames
}

// errorResult turns err into a failed command result.
func errorResult(err error) mode.Result {
	return mode.Result{Handled: true, Error: true, Message: err.Error()}
}

func okResult(format string, args ...any) mode.Result {
	return mode.Result{Handled: true, Message: fmt.Sprintf(format, args...)}
}
