package control

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultClientTimeout bounds a whole request/response exchange.
const DefaultClientTimeout = 15 * time.Second

// Client sends commands to a running gridstorm.
type Client struct {
	conn    net.Conn
	r       *bufio.Reader
	timeout time.Duration
}

// Dial connects to the control server at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("control dial %s: %w", addr, err)
	}
	return &Client{
		conn:    conn,
		r:       bufio.NewReaderSize(conn, 4096),
		timeout: DefaultClientTimeout,
	}, nil
}

// SetTimeout changes the per-request deadline.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Do sends one command and waits for its response.
func (c *Client) Do(command string) (Response, error) {
	line, err := EncodeRequest(command)
	if err != nil {
		return Response{}, err
	}
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return Response{}, err
	}
	if _, err := c.conn.Write(append(line, '\n')); err != nil {
		return Response{}, fmt.Errorf("control send: %w", err)
	}
	reply, err := c.readLine()
	if err != nil {
		return Response{}, fmt.Errorf("control receive: %w", err)
	}
	return DecodeResponse(reply)
}

func (c *Client) readLine() ([]byte, error) {
	var line []byte
	for {
		chunk, isPrefix, err := c.r.ReadLine()
		if err != nil {
			return nil, err
		}
		line = append(line, chunk...)
		if len(line) > MaxLineSize {
			return nil, fmt.Errorf("%w: response too long", ErrBadRequest)
		}
		if !isPrefix {
			return line, nil
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
