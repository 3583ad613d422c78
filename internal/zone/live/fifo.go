package live

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dshills/gridstorm/internal/zone"
)

// ErrNotFIFO is returned when a fifo zone's path exists but is not a named
// pipe.
var ErrNotFIFO = errors.New("path exists and is not a named pipe")

// fifoRunner appends lines written to a named pipe.
//
// The read end is non-blocking. A second, write-only descriptor is held
// open so the reader never sees end-of-file when outside writers come and
// go.
type fifoRunner struct {
	e       *Executor
	z       *zone.Zone
	path    string
	created bool
	limiter *Limiter

	// owned by the loop goroutine until done is closed
	rfd, wfd int
	split    splitter

	alive  atomic.Bool
	stopCh chan struct{}
	done   chan struct{}
}

func (e *Executor) startFIFO(z *zone.Zone, path string) (*fifoRunner, error) {
	created, err := ensureFIFO(path)
	if err != nil {
		return nil, err
	}
	rfd, wfd, err := openFIFO(path)
	if err != nil {
		if created {
			_ = os.Remove(path)
		}
		return nil, err
	}
	r := &fifoRunner{
		e:       e,
		z:       z,
		path:    path,
		created: created,
		limiter: NewLimiter(e.cfg.ReconnectInterval),
		rfd:     rfd,
		wfd:     wfd,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	r.alive.Store(true)
	z.Revive()
	go r.loop()
	return r, nil
}

// ensureFIFO creates the named pipe when path does not exist and reports
// whether it did.
func ensureFIFO(path string) (bool, error) {
	fi, err := os.Stat(path)
	switch {
	case err == nil:
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return false, fmt.Errorf("%w: %s", ErrNotFIFO, path)
		}
		return false, nil
	case errors.Is(err, os.ErrNotExist):
		if err := unix.Mkfifo(path, 0o600); err != nil {
			return false, fmt.Errorf("mkfifo %s: %w", path, err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

func openFIFO(path string) (rfd, wfd int, err error) {
	rfd, err = unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, -1, fmt.Errorf("open fifo %s: %w", path, err)
	}
	wfd, err = unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		_ = unix.Close(rfd)
		return -1, -1, fmt.Errorf("open fifo %s for writing: %w", path, err)
	}
	return rfd, wfd, nil
}

func (r *fifoRunner) loop() {
	defer close(r.done)

	buf := make([]byte, 4096)
	timeout := int(r.e.cfg.PollInterval / time.Millisecond)
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		if r.rfd < 0 {
			if !r.reconnect() {
				return
			}
			continue
		}

		fds := []unix.PollFd{{Fd: int32(r.rfd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, timeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			r.lost(err)
			continue
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&unix.POLLIN != 0 {
			if err := r.drain(buf); err != nil {
				r.lost(err)
			}
			continue
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			r.lost(io.EOF)
		}
	}
}

func (r *fifoRunner) drain(buf []byte) error {
	for {
		n, err := unix.Read(r.rfd, buf)
		if n > 0 {
			deliver(r.z, r.split.feed(buf[:n]))
		}
		switch {
		case err == nil && n == 0:
			return io.EOF
		case errors.Is(err, unix.EAGAIN):
			return nil
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return err
		}
	}
}

func (r *fifoRunner) lost(err error) {
	r.closeFDs()
	r.alive.Store(false)
	r.z.MarkInert(fmt.Sprintf("fifo lost: %v", err))
	r.e.logger.Warn("fifo zone lost", "name", r.z.Name(), "path", r.path, "err", err)
}

// reconnect waits for the limiter and tries to reopen the pipe. It returns
// false when the runner is stopping.
func (r *fifoRunner) reconnect() bool {
	if !r.limiter.Allow() {
		wait := min(r.limiter.Wait(), r.e.cfg.PollInterval)
		select {
		case <-r.stopCh:
			return false
		case <-time.After(wait):
			return true
		}
	}
	created, err := ensureFIFO(r.path)
	if err == nil {
		r.created = r.created || created
		r.rfd, r.wfd, err = openFIFO(r.path)
	}
	if err != nil {
		r.e.logger.Debug("fifo reopen failed", "name", r.z.Name(), "err", err)
		return true
	}
	r.alive.Store(true)
	r.z.Revive()
	r.e.logger.Info("fifo zone reopened", "name", r.z.Name(), "path", r.path)
	return true
}

func (r *fifoRunner) closeFDs() {
	if r.rfd >= 0 {
		_ = unix.Close(r.rfd)
		r.rfd = -1
	}
	if r.wfd >= 0 {
		_ = unix.Close(r.wfd)
		r.wfd = -1
	}
}

func (r *fifoRunner) active() bool {
	return r.alive.Load()
}

func (r *fifoRunner) stop() {
	close(r.stopCh)
	<-r.done
	r.closeFDs()
	r.alive.Store(false)
	deliver(r.z, r.split.flush())
	if r.created {
		if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.e.logger.Warn("remove fifo", "path", r.path, "err", err)
		}
	}
}
