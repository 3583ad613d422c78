package joystick

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/gridstorm/internal/input"
)

// Config configures a Monitor.
type Config struct {
	Device            string
	PollInterval      time.Duration
	ReconnectInterval time.Duration
	MaxReconnects     int
	Deadzone          int
}

// DefaultConfig returns the default monitor settings.
func DefaultConfig() Config {
	return Config{
		Device:            DefaultDevice,
		PollInterval:      100 * time.Millisecond,
		ReconnectInterval: 2 * time.Second,
		MaxReconnects:     10,
		Deadzone:          DefaultDeadzone,
	}
}

// Monitor reads a joystick on its own goroutine and delivers mapped input
// events. It reopens the device after it disappears, paced by a Tracker.
type Monitor struct {
	cfg     Config
	logger  *log.Logger
	tracker *Tracker
	mapper  *Mapper
	events  chan input.Event

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) MonitorOption {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMonitor creates a monitor. Zero config fields take defaults.
func NewMonitor(cfg Config, opts ...MonitorOption) *Monitor {
	def := DefaultConfig()
	if cfg.Device == "" {
		cfg.Device = def.Device
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = def.ReconnectInterval
	}
	m := &Monitor{
		cfg:    cfg,
		logger: log.New(io.Discard),
		mapper: NewMapper(cfg.Deadzone),
		events: make(chan input.Event, 64),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.tracker = NewTracker(TrackerConfig{
		Interval:    cfg.ReconnectInterval,
		MaxAttempts: cfg.MaxReconnects,
		OnStateChange: func(from, to State) {
			m.logger.Info("joystick state", "device", cfg.Device, "from", from, "to", to)
		},
	})
	return m
}

// Events returns the channel of mapped input events.
func (m *Monitor) Events() <-chan input.Event {
	return m.events
}

// Tracker returns the health tracker.
func (m *Monitor) Tracker() *Tracker {
	return m.tracker
}

// Start launches the read loop.
func (m *Monitor) Start() {
	m.startOnce.Do(func() {
		go m.run()
	})
}

// Stop ends the read loop and waits for it. It is safe to call more than
// once and before Start.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	// a monitor that never started has nothing to join
	m.startOnce.Do(func() { close(m.done) })
	<-m.done
}

func (m *Monitor) run() {
	defer close(m.done)

	var dev *Device
	defer func() {
		if dev != nil {
			_ = dev.Close()
		}
	}()

	for {
		select {
		case <-m.stop:
			return
		default:
		}

		if dev == nil {
			dev = m.connect()
			if dev == nil && !m.sleep() {
				return
			}
			continue
		}

		events, err := dev.Read(m.cfg.PollInterval)
		for _, ev := range events {
			if a, ok := m.mapper.Map(ev); ok {
				m.deliver(input.ActionEvent(a))
			}
		}
		if err != nil {
			m.logger.Warn("joystick lost", "device", m.cfg.Device, "err", err)
			_ = dev.Close()
			dev = nil
			m.mapper.Reset()
			m.tracker.Failed(err)
		}
	}
}

func (m *Monitor) connect() *Device {
	if !m.tracker.Attempt() {
		return nil
	}
	dev, err := Open(m.cfg.Device)
	if err != nil {
		m.tracker.Failed(err)
		m.logger.Debug("joystick open failed", "err", err)
		return nil
	}
	m.tracker.Connected()
	return dev
}

// sleep waits one poll interval and returns false when stopping.
func (m *Monitor) sleep() bool {
	t := time.NewTimer(m.cfg.PollInterval)
	defer t.Stop()
	select {
	case <-m.stop:
		return false
	case <-t.C:
		return true
	}
}

func (m *Monitor) deliver(ev input.Event) {
	select {
	case m.events <- ev:
	case <-m.stop:
	default:
		m.logger.Debug("joystick event dropped", "action", ev.Action)
	}
}
