package joystick

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultDevice is the first joystick on Linux.
const DefaultDevice = "/dev/input/js0"

// Device is an open joystick device node read without blocking.
type Device struct {
	path    string
	fd      int
	partial []byte
}

// Open opens the device node read-only and non-blocking.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Device{path: path, fd: fd}, nil
}

// Path returns the device path.
func (d *Device) Path() string {
	return d.path
}

// Read waits at most timeout for input and returns the complete events
// available. It returns io.EOF when the device went away.
func (d *Device) Read(timeout time.Duration) ([]Event, error) {
	if d.fd < 0 {
		return nil, io.EOF
	}
	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("poll %s: %w", d.path, err)
	}
	if n == 0 {
		return nil, nil
	}
	re := fds[0].Revents
	if re&unix.POLLIN == 0 && re&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
		return nil, io.EOF
	}

	buf := make([]byte, EventSize*32)
	var events []Event
	for {
		n, err := unix.Read(d.fd, buf)
		if n > 0 {
			d.partial = append(d.partial, buf[:n]...)
		}
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			return d.decode(events), nil
		case errors.Is(err, unix.ENODEV):
			return d.decode(events), io.EOF
		case err != nil:
			return d.decode(events), fmt.Errorf("read %s: %w", d.path, err)
		case n == 0:
			return d.decode(events), io.EOF
		}
	}
}

func (d *Device) decode(events []Event) []Event {
	for len(d.partial) >= EventSize {
		ev, _ := Decode(d.partial[:EventSize])
		events = append(events, ev)
		d.partial = d.partial[EventSize:]
	}
	if len(d.partial) == 0 {
		d.partial = nil
	}
	return events
}

// Close closes the device.
func (d *Device) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
