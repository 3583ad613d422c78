package live

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between reconnection attempts. It
// is a token bucket of size one refilled once per interval.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	bucket   *rate.Limiter
	attempts int
	now      func() time.Time
}

// NewLimiter creates a limiter allowing one attempt per interval.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		bucket:   newBucket(interval),
		now:      time.Now,
	}
}

func newBucket(interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Allow reports whether an attempt may be made now and, if so, records it.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.bucket.AllowN(l.now(), 1) {
		return false
	}
	l.attempts++
	return true
}

// Wait returns how long until the next attempt is allowed.
func (l *Limiter) Wait() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	tokens := l.bucket.TokensAt(l.now())
	if tokens >= 1 || l.bucket.Limit() == rate.Inf {
		return 0
	}
	return time.Duration((1 - tokens) / float64(l.bucket.Limit()) * float64(time.Second))
}

// Attempts returns the number of allowed attempts.
func (l *Limiter) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}

// Reset forgets previous attempts.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bucket = newBucket(l.interval)
	l.attempts = 0
}
