package project

import (
	"errors"
	"fmt"
)

// Standard errors returned by the project package.
var (
	// ErrUnsupportedVersion indicates a file written by a newer release.
	ErrUnsupportedVersion = errors.New("unsupported project version")

	// ErrInvalidDocument indicates a structurally invalid project file.
	ErrInvalidDocument = errors.New("invalid project document")
)

// PathError represents an error associated with a file path.
type PathError struct {
	Op   string // Operation that failed (open, read, write, etc.)
	Path string // File path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new PathError.
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}
