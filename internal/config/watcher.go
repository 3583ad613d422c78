package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce when
// saving.
const DefaultDebounce = 100 * time.Millisecond

// Update is the result of reloading a watched file.
type Update struct {
	Config *Config
	Err    error
}

// Watcher reloads a config file when it changes.
//
// The parent directory is watched rather than the file so that editors
// which save by renaming a temporary file over the original are seen.
// Only the newest pending update is kept.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger

	fsw     *fsnotify.Watcher
	updates chan Update

	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watch starts watching path. The file need not exist yet.
func Watch(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config watcher: watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   log.New(io.Discard),
		fsw:      fsw,
		updates:  make(chan Update, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.loop()
	return w, nil
}

// Updates delivers reloaded configurations, or the error that prevented
// one. Invalid files never replace a good configuration; the host keeps
// the old one and reports Err.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching and waits for the watcher goroutine.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		<-w.done
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !relevant(ev.Op) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "err", err)

		case <-timerCh:
			timerCh = nil
			w.reload()
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "err", err)
	} else {
		w.logger.Info("config reloaded", "path", w.path)
	}
	u := Update{Config: cfg, Err: err}

	// replace an update the host has not consumed yet
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- u:
	default:
	}
}

// ErrNoConfigFile is returned by WatchDefault when no config path can be
// determined.
var ErrNoConfigFile = errors.New("no config file path")

// WatchDefault watches the file Load reads by default.
func WatchDefault(opts ...WatcherOption) (*Watcher, error) {
	p := DefaultPath()
	if p == "" {
		return nil, ErrNoConfigFile
	}
	return Watch(p, opts...)
}
