package process

import (
	"errors"
	"os/exec"
	"testing"
	"time"
)

func TestNewProcess(t *testing.T) {
	proc := NewProcess("id-1", "clock", exec.Command("true"))

	if proc.State() != StateCreated {
		t.Errorf("State() = %v, want created", proc.State())
	}
	if proc.ExitCode() != -1 {
		t.Errorf("ExitCode() = %d, want -1", proc.ExitCode())
	}
	if proc.PID() != -1 {
		t.Errorf("PID() = %d before start, want -1", proc.PID())
	}
	if proc.IsRunning() || proc.HasExited() {
		t.Error("fresh process should be neither running nor exited")
	}
	if proc.Runtime() != 0 {
		t.Errorf("Runtime() = %v before start", proc.Runtime())
	}
}

func TestProcess_StartAndExit(t *testing.T) {
	proc := NewProcess("id-1", "clock", exec.Command("sh", "-c", "exit 3"))
	if err := proc.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if proc.PID() <= 0 {
		t.Errorf("PID() = %d after start", proc.PID())
	}

	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}

	if proc.State() != StateExited {
		t.Errorf("State() = %v, want exited", proc.State())
	}
	if proc.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", proc.ExitCode())
	}
	if proc.ExitError() == nil {
		t.Error("ExitError() = nil for non-zero exit")
	}
}

func TestProcess_StartTwice(t *testing.T) {
	proc := NewProcess("id-1", "clock", exec.Command("true"))
	if err := proc.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-proc.Done()

	if err := proc.start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second start error = %v, want ErrAlreadyStarted", err)
	}
}

func TestProcess_KillAndWait(t *testing.T) {
	proc := NewProcess("id-1", "sleeper", exec.Command("sleep", "30"))
	if err := proc.start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if !proc.KillAndWait(5 * time.Second) {
		t.Fatal("KillAndWait timed out")
	}
	if proc.State() != StateKilled {
		t.Errorf("State() = %v, want killed", proc.State())
	}
	if proc.Runtime() <= 0 {
		t.Error("Runtime() should be positive after exit")
	}
	// already reaped
	if !proc.KillAndWait(time.Millisecond) {
		t.Error("KillAndWait on reaped process should report true")
	}
}

func TestProcess_SignalNotRunning(t *testing.T) {
	proc := NewProcess("id-1", "clock", exec.Command("true"))
	if err := proc.Kill(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Kill() before start = %v, want ErrNotRunning", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateRunning, "running"},
		{StateExited, "exited"},
		{StateKilled, "killed"},
		{State(42), "unknown(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}
