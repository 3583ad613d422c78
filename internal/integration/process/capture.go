package process

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// DefaultCaptureTimeout bounds a captured command when no timeout is given.
const DefaultCaptureTimeout = 10 * time.Second

// Result is the outcome of a captured command.
type Result struct {
	// Output is the combined stdout and stderr.
	Output string

	// ExitCode is the command's exit status, -1 if it was killed.
	ExitCode int

	// Duration is how long the command ran.
	Duration time.Duration
}

// DefaultShell returns $SHELL, falling back to /bin/sh.
func DefaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// Capture runs command through shell -c and collects its combined output.
//
// The command runs in its own process group. When timeout elapses or ctx
// is canceled the whole group is killed; the output gathered so far is
// returned together with ErrTimeout or the context error. A non-zero exit
// status is not an error: it is reported in Result.ExitCode.
func (s *Supervisor) Capture(ctx context.Context, name, shell, command string, timeout time.Duration) (Result, error) {
	if shell == "" {
		shell = DefaultShell()
	}
	if timeout <= 0 {
		timeout = DefaultCaptureTimeout
	}

	var buf bytes.Buffer
	cmd := exec.Command(shell, "-c", command)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// background children can hold the output pipe open after the shell exits
	cmd.WaitDelay = 500 * time.Millisecond

	proc, err := s.Start(name, cmd)
	if err != nil {
		return Result{ExitCode: -1}, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var runErr error
	select {
	case <-proc.Done():
	case <-timer.C:
		killGroup(proc)
		<-proc.Done()
		runErr = fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case <-ctx.Done():
		killGroup(proc)
		<-proc.Done()
		runErr = ctx.Err()
	}

	res := Result{
		Output:   buf.String(),
		ExitCode: proc.ExitCode(),
		Duration: proc.Runtime(),
	}
	if runErr != nil {
		res.ExitCode = -1
	}
	return res, runErr
}

func killGroup(p *Process) {
	pid := p.PID()
	if pid <= 0 {
		return
	}
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		_ = p.Kill()
	}
}
