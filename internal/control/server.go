package control

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Call is a request waiting for the host loop. The host must call Reply
// exactly once.
type Call struct {
	Request
	reply chan Response
}

// Reply answers the call. Calls after the first are ignored.
func (c *Call) Reply(r Response) {
	r.ID = c.ID
	select {
	case c.reply <- r:
	default:
	}
}

// ServerConfig holds the server timeouts.
type ServerConfig struct {
	// IdleTimeout closes connections that send nothing for this long.
	IdleTimeout time.Duration
	// WriteTimeout bounds writing one response.
	WriteTimeout time.Duration
	// ReplyTimeout bounds how long a request waits for the host loop.
	ReplyTimeout time.Duration
}

// DefaultServerConfig returns the default timeouts.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		IdleTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Second,
		ReplyTimeout: 10 * time.Second,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig sets the timeouts. Zero fields keep their defaults.
func WithConfig(c ServerConfig) Option {
	return func(s *Server) {
		if c.IdleTimeout > 0 {
			s.cfg.IdleTimeout = c.IdleTimeout
		}
		if c.WriteTimeout > 0 {
			s.cfg.WriteTimeout = c.WriteTimeout
		}
		if c.ReplyTimeout > 0 {
			s.cfg.ReplyTimeout = c.ReplyTimeout
		}
	}
}

// Server accepts control connections and forwards each request line to
// the host loop through Calls. Requests are never executed on connection
// goroutines.
type Server struct {
	cfg    ServerConfig
	logger *log.Logger
	ln     net.Listener

	calls chan *Call

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool

	closeOnce sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

// Listen starts a server on addr, e.g. "127.0.0.1:7878".
func Listen(addr string, opts ...Option) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("control listen %s: %w", addr, err)
	}
	s := &Server{
		cfg:    DefaultServerConfig(),
		logger: log.New(io.Discard),
		ln:     ln,
		calls:  make(chan *Call),
		conns:  make(map[net.Conn]struct{}),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go s.acceptLoop()
	s.logger.Info("control server listening", "addr", ln.Addr())
	return s, nil
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Calls delivers requests to the host loop.
func (s *Server) Calls() <-chan *Call {
	return s.calls
}

// Close stops accepting, drops open connections and waits for their
// goroutines to finish.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		err = s.ln.Close()
		s.mu.Lock()
		s.closed = true
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		s.wg.Wait()
	})
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.stop:
				return
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			s.logger.Error("control accept failed", "err", err)
			return
		}
		if !s.track(conn) {
			_ = conn.Close()
			return
		}
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	logger := s.logger.With("remote", conn.RemoteAddr())
	logger.Debug("control client connected")

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), MaxLineSize)
	w := bufio.NewWriter(conn)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				logger.Debug("control client dropped", "err", err)
			}
			return
		}

		res := s.handle(sc.Text())
		if res == nil {
			continue
		}
		line, err := res.Encode()
		if err != nil {
			logger.Error("encode response", "err", err)
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		if _, err := w.Write(append(line, '\n')); err != nil {
			logger.Debug("control write failed", "err", err)
			return
		}
		if err := w.Flush(); err != nil {
			logger.Debug("control write failed", "err", err)
			return
		}
		if res.Quit {
			return
		}
	}
}

// handle runs one request line through the host loop. It returns nil for
// blank lines.
func (s *Server) handle(line string) *Response {
	req, err := ParseRequest(line)
	if errors.Is(err, ErrEmptyRequest) {
		return nil
	}
	if err != nil {
		r := errorResponse(err)
		return &r
	}

	call := &Call{Request: req, reply: make(chan Response, 1)}
	timer := time.NewTimer(s.cfg.ReplyTimeout)
	defer timer.Stop()

	select {
	case s.calls <- call:
	case <-timer.C:
		r := errorResponse(ErrTimeout)
		r.ID = req.ID
		return &r
	case <-s.stop:
		r := errorResponse(ErrClosed)
		r.ID = req.ID
		return &r
	}

	select {
	case r := <-call.reply:
		return &r
	case <-timer.C:
		r := errorResponse(ErrTimeout)
		r.ID = req.ID
		return &r
	case <-s.stop:
		r := errorResponse(ErrClosed)
		r.ID = req.ID
		return &r
	}
}
