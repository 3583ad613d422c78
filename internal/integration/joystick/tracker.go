package joystick

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// State is the device connection state.
type State int

const (
	// StateDisconnected means no device is open; reconnects are attempted.
	StateDisconnected State = iota

	// StateConnected means the device is open and being read.
	StateConnected

	// StateExhausted means the reconnect budget is spent; no further
	// attempts are made until Reset.
	StateExhausted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// TrackerConfig configures reconnect pacing.
type TrackerConfig struct {
	// Interval is the minimum time between connection attempts.
	Interval time.Duration

	// MaxAttempts is the number of consecutive failed attempts after which
	// the tracker gives up. Zero means no limit.
	MaxAttempts int

	// OnStateChange is called synchronously on every transition.
	OnStateChange func(from, to State)
}

// Tracker tracks device health and decides when to try reconnecting.
type Tracker struct {
	mu     sync.Mutex
	config TrackerConfig

	state       State
	failures    int
	pace        *rate.Limiter
	lastAttempt time.Time
	lastErr     error
	now         func() time.Time
}

// NewTracker creates a tracker in the disconnected state.
func NewTracker(cfg TrackerConfig) *Tracker {
	t := &Tracker{config: cfg, now: time.Now}
	t.resetPace()
	return t
}

// resetPace lets the next attempt through immediately.
func (t *Tracker) resetPace() {
	t.pace = rate.NewLimiter(rate.Every(t.config.Interval), 1)
	t.lastAttempt = time.Time{}
}

// Attempt reports whether a connection attempt may be made now and, if
// so, records it.
func (t *Tracker) Attempt() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateDisconnected {
		return false
	}
	now := t.now()
	if !t.pace.AllowN(now, 1) {
		return false
	}
	t.lastAttempt = now
	return true
}

// Connected records a successful attempt.
func (t *Tracker) Connected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = 0
	t.lastErr = nil
	t.transitionTo(StateConnected)
}

// Failed records a failed attempt or the loss of an open device.
func (t *Tracker) Failed(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastErr = err
	if t.state == StateConnected {
		// losing a working device starts a fresh budget
		t.failures = 0
		t.resetPace()
		t.transitionTo(StateDisconnected)
		return
	}
	t.failures++
	if t.config.MaxAttempts > 0 && t.failures >= t.config.MaxAttempts {
		t.transitionTo(StateExhausted)
	}
}

// Reset returns an exhausted tracker to the disconnected state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = 0
	t.resetPace()
	if t.state != StateConnected {
		t.transitionTo(StateDisconnected)
	}
}

// transitionTo must be called with the lock held.
func (t *Tracker) transitionTo(s State) {
	from := t.state
	if from == s {
		return
	}
	t.state = s
	if t.config.OnStateChange != nil {
		t.config.OnStateChange(from, s)
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stats returns tracker statistics.
func (t *Tracker) Stats() TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackerStats{
		State:       t.state,
		Failures:    t.failures,
		LastAttempt: t.lastAttempt,
		LastError:   t.lastErr,
	}
}

// TrackerStats contains tracker statistics.
type TrackerStats struct {
	State       State
	Failures    int
	LastAttempt time.Time
	LastError   error
}
