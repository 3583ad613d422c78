package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrClosed is returned when writing to a closed emulator or session.
	ErrClosed = errors.New("terminal is closed")

	// ErrUnknownBackend is returned by NewEmulator for an unknown backend name.
	ErrUnknownBackend = errors.New("unknown emulator backend")

	// ErrInvalidSize is returned when a session is started without room
	// for at least one cell.
	ErrInvalidSize = errors.New("invalid terminal size")

	// ErrShellNotFound is returned when the shell executable is not found.
	ErrShellNotFound = errors.New("shell not found")

	// ErrWriteTimeout is returned when the PTY does not accept input in time.
	ErrWriteTimeout = errors.New("terminal write timed out")
)
