package live

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLimiter(2 * time.Second)
	l.now = func() time.Time { return now }

	steps := []struct {
		advance time.Duration
		allow   bool
		wait    time.Duration
	}{
		{0, true, 2 * time.Second},
		{500 * time.Millisecond, false, 1500 * time.Millisecond},
		{1500 * time.Millisecond, true, 2 * time.Second},
		{time.Second, false, time.Second},
		{5 * time.Second, true, 2 * time.Second},
	}
	for i, s := range steps {
		now = now.Add(s.advance)
		if got := l.Allow(); got != s.allow {
			t.Errorf("step %d: Allow() = %v, want %v", i, got, s.allow)
		}
		if got := l.Wait(); got != s.wait {
			t.Errorf("step %d: Wait() = %v, want %v", i, got, s.wait)
		}
	}
	if l.Attempts() != 3 {
		t.Errorf("Attempts() = %d, want 3", l.Attempts())
	}

	l.Reset()
	if !l.Allow() || l.Attempts() != 1 {
		t.Error("Reset did not clear the limiter")
	}
}

func TestLimiterWithoutInterval(t *testing.T) {
	l := NewLimiter(0)
	for i := range 3 {
		if !l.Allow() {
			t.Fatalf("attempt %d refused", i)
		}
	}
	if w := l.Wait(); w != 0 {
		t.Errorf("Wait() = %v, want 0", w)
	}
}
