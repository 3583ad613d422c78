package live

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/gridstorm/internal/zone"
)

// socketRunner appends lines sent to a loopback TCP listener. Every
// connection is read on its own goroutine; lines from different
// connections are delivered whole but may interleave.
type socketRunner struct {
	e       *Executor
	z       *zone.Zone
	addr    string
	limiter *Limiter

	// owned by the accept goroutine
	ln net.Listener

	deliverMu sync.Mutex
	conns     sync.WaitGroup
	served    atomic.Int64

	alive  atomic.Bool
	stopCh chan struct{}
	done   chan struct{}
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

func (e *Executor) startSocket(z *zone.Zone, port int) (*socketRunner, error) {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	r := &socketRunner{
		e:       e,
		z:       z,
		addr:    addr,
		limiter: NewLimiter(e.cfg.ReconnectInterval),
		ln:      ln,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	r.alive.Store(true)
	z.Revive()
	go r.acceptLoop()
	return r, nil
}

func (r *socketRunner) acceptLoop() {
	defer close(r.done)
	defer r.conns.Wait()
	defer r.closeListener()

	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		if r.ln == nil {
			if !r.relisten() {
				return
			}
			continue
		}

		if d, ok := r.ln.(deadliner); ok {
			_ = d.SetDeadline(time.Now().Add(r.e.cfg.PollInterval))
		}
		conn, err := r.ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			r.closeListener()
			r.alive.Store(false)
			r.z.MarkInert(fmt.Sprintf("listener lost: %v", err))
			r.e.logger.Warn("socket zone lost", "name", r.z.Name(), "addr", r.addr, "err", err)
			continue
		}
		r.served.Add(1)
		r.conns.Add(1)
		go r.serve(conn)
	}
}

// relisten waits for the limiter and tries to bind again. It returns false
// when the runner is stopping.
func (r *socketRunner) relisten() bool {
	if !r.limiter.Allow() {
		wait := min(r.limiter.Wait(), r.e.cfg.PollInterval)
		select {
		case <-r.stopCh:
			return false
		case <-time.After(wait):
			return true
		}
	}
	ln, err := net.Listen("tcp", r.addr)
	if err != nil {
		r.e.logger.Debug("socket relisten failed", "name", r.z.Name(), "err", err)
		return true
	}
	r.ln = ln
	r.alive.Store(true)
	r.z.Revive()
	r.e.logger.Info("socket zone listening again", "name", r.z.Name(), "addr", r.addr)
	return true
}

func (r *socketRunner) closeListener() {
	if r.ln != nil {
		_ = r.ln.Close()
		r.ln = nil
	}
}

func (r *socketRunner) serve(conn net.Conn) {
	defer r.conns.Done()
	defer conn.Close()

	var split splitter
	buf := make([]byte, 4096)
	for {
		select {
		case <-r.stopCh:
			r.deliver(split.flush())
			return
		default:
		}
		_ = conn.SetReadDeadline(time.Now().Add(r.e.cfg.PollInterval))
		n, err := conn.Read(buf)
		if n > 0 {
			r.deliver(split.feed(buf[:n]))
		}
		if err == nil {
			continue
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			continue
		}
		r.deliver(split.flush())
		if !errors.Is(err, io.EOF) {
			r.e.logger.Debug("socket zone read", "name", r.z.Name(), "err", err)
		}
		return
	}
}

func (r *socketRunner) deliver(lines []string) {
	if len(lines) == 0 {
		return
	}
	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()
	deliver(r.z, lines)
}

func (r *socketRunner) active() bool {
	return r.alive.Load()
}

func (r *socketRunner) stop() {
	close(r.stopCh)
	<-r.done
	r.alive.Store(false)
}
