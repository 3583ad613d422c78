package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/integration/process"
)

const (
	// pollTimeout bounds each reader wait so Stop is observed promptly.
	pollTimeout = 100 * time.Millisecond

	// joinTimeout bounds how long Stop waits for the reader goroutine.
	joinTimeout = time.Second

	// reapTimeout bounds how long Stop waits for the killed shell.
	reapTimeout = time.Second

	writeTimeout = time.Second
	readBufSize  = 4096
)

// SessionOptions configures a PTY session.
type SessionOptions struct {
	// Name labels the session's process, usually the zone name.
	Name string

	// Shell is the program to run; empty selects process.DefaultShell.
	Shell string

	// Args are passed to the shell.
	Args []string

	// Env is appended to the inherited environment.
	Env []string

	// Dir is the working directory.
	Dir string

	// Width and Height size the PTY and the emulator grid.
	Width  int
	Height int

	// Backend selects the emulator backend; see NewEmulator.
	Backend string

	// Scrollback bounds the builtin emulator's scrollback.
	Scrollback int

	// Supervisor tracks the shell process. Required.
	Supervisor *process.Supervisor

	Logger *log.Logger
}

// Session is an interactive shell running on a pseudo-terminal whose
// output is fed into an Emulator.
//
// A single reader goroutine drains the PTY master. Stop tears the session
// down: it signals the reader, joins it, closes the master and kills and
// reaps the shell.
type Session struct {
	name   string
	shell  string
	master *os.File
	fd     int
	proc   *process.Process
	emu    Emulator
	logger *log.Logger

	stop       chan struct{}
	readerDone chan struct{}

	mu       sync.Mutex
	err      error
	stopped  bool
	stopOnce sync.Once

	wmu sync.Mutex
}

// StartSession opens a PTY, starts the shell on it and begins reading.
func StartSession(opts SessionOptions) (*Session, error) {
	if opts.Width < 1 || opts.Height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if opts.Supervisor == nil {
		return nil, errors.New("terminal: session requires a supervisor")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	shell := opts.Shell
	if shell == "" {
		shell = process.DefaultShell()
	}
	path, err := exec.LookPath(shell)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShellNotFound, shell)
	}

	emu, err := NewEmulator(opts.Backend, opts.Width, opts.Height, opts.Scrollback)
	if err != nil {
		return nil, err
	}

	master, tty, err := pty.Open()
	if err != nil {
		_ = emu.Close()
		return nil, fmt.Errorf("open pty: %w", err)
	}
	ws := &pty.Winsize{Rows: uint16(opts.Height), Cols: uint16(opts.Width)}
	if err := pty.Setsize(master, ws); err != nil {
		_ = master.Close()
		_ = tty.Close()
		_ = emu.Close()
		return nil, fmt.Errorf("size pty: %w", err)
	}

	cmd := exec.Command(path, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	proc, err := opts.Supervisor.Start(opts.Name, cmd)
	// the child holds its own copy of the slave
	_ = tty.Close()
	if err != nil {
		_ = master.Close()
		_ = emu.Close()
		return nil, err
	}

	fd := int(master.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		proc.KillAndWait(reapTimeout)
		_ = master.Close()
		_ = emu.Close()
		return nil, fmt.Errorf("set pty non-blocking: %w", err)
	}

	s := &Session{
		name:       opts.Name,
		shell:      shell,
		master:     master,
		fd:         fd,
		proc:       proc,
		emu:        emu,
		logger:     logger,
		stop:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}
	emu.SetReplyWriter(writerFunc(s.Write))

	go s.readLoop()

	logger.Debug("pty session started", "name", opts.Name, "shell", shell,
		"pid", proc.PID(), "size", fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	return s, nil
}

func (s *Session) readLoop() {
	defer close(s.readerDone)

	buf := make([]byte, readBufSize)
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		fds[0].Revents = 0
		n, err := unix.Poll(fds, int(pollTimeout/time.Millisecond))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			s.fail(fmt.Errorf("poll pty: %w", err))
			return
		}
		if n == 0 {
			continue
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			if err := s.drain(buf); err != nil {
				s.fail(err)
				return
			}
			continue
		}
		if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			s.fail(io.EOF)
			return
		}
	}
}

// drain reads until the master would block.
func (s *Session) drain(buf []byte) error {
	for {
		n, err := unix.Read(s.fd, buf)
		if n > 0 {
			_, _ = s.emu.Write(buf[:n])
		}
		switch {
		case err == nil && n == 0:
			return io.EOF
		case err == nil:
			continue
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			return nil
		case errors.Is(err, unix.EIO):
			// the slave side closed: the shell is gone
			return io.EOF
		default:
			return fmt.Errorf("read pty: %w", err)
		}
	}
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.err == nil && !s.stopped {
		s.err = err
	}
	s.mu.Unlock()
	s.logger.Debug("pty session ended", "name", s.name, "err", err)
}

// Name returns the session label.
func (s *Session) Name() string {
	return s.name
}

// Shell returns the program the session runs.
func (s *Session) Shell() string {
	return s.shell
}

// PID returns the shell's process ID.
func (s *Session) PID() int {
	return s.proc.PID()
}

// Emulator returns the session's emulator.
func (s *Session) Emulator() Emulator {
	return s.emu
}

// Active reports whether the shell and the reader are both alive.
func (s *Session) Active() bool {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return false
	}
	select {
	case <-s.readerDone:
		return false
	default:
	}
	return s.proc.IsRunning()
}

// Done returns a channel closed when the reader goroutine has exited,
// either because of Stop or because the PTY went away.
func (s *Session) Done() <-chan struct{} {
	return s.readerDone
}

// Err reports why the session died, or nil while it is alive or after a
// clean Stop.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Write sends input to the shell.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return 0, ErrClosed
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	deadline := time.Now().Add(writeTimeout)
	written := 0
	for written < len(p) {
		n, err := unix.Write(s.fd, p[written:])
		if n > 0 {
			written += n
		}
		switch {
		case err == nil:
			continue
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			if time.Now().After(deadline) {
				return written, ErrWriteTimeout
			}
			fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLOUT}}
			_, _ = unix.Poll(fds, int(pollTimeout/time.Millisecond))
		default:
			return written, fmt.Errorf("write pty: %w", err)
		}
	}
	return written, nil
}

// WriteString sends text to the shell.
func (s *Session) WriteString(text string) (int, error) {
	return s.Write([]byte(text))
}

// SendKey encodes ev and sends it to the shell.
func (s *Session) SendKey(ev key.Event) error {
	b := EncodeKey(ev)
	if len(b) == 0 {
		return nil
	}
	_, err := s.Write(b)
	return err
}

// Resize resizes both the PTY and the emulator grid.
func (s *Session) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return ErrClosed
	}
	s.emu.Resize(width, height)
	ws := &unix.Winsize{Row: uint16(height), Col: uint16(width)}
	if err := unix.IoctlSetWinsize(s.fd, unix.TIOCSWINSZ, ws); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Lines returns the emulator's visible rows.
func (s *Session) Lines(scrollOffset int) []string {
	return s.emu.Lines(scrollOffset)
}

// Cursor returns the emulator's cursor position.
func (s *Session) Cursor() (x, y int) {
	return s.emu.Cursor()
}

// ScrollbackLen returns the number of lines available for scrolling back.
func (s *Session) ScrollbackLen() int {
	return s.emu.ScrollbackLen()
}

// Stop tears the session down. It is safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()

		close(s.stop)
		select {
		case <-s.readerDone:
		case <-time.After(joinTimeout):
			s.logger.Warn("pty reader did not exit", "name", s.name)
		}

		if err := s.master.Close(); err != nil {
			s.logger.Debug("close pty", "name", s.name, "err", err)
		}

		if !s.proc.KillAndWait(reapTimeout) {
			s.logger.Warn("shell not reaped", "name", s.name, "pid", s.proc.PID())
		}
		_ = s.emu.Close()
		s.logger.Debug("pty session stopped", "name", s.name)
	})
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}
