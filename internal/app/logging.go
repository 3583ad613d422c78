package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// NewLogger creates the application logger. The terminal belongs to the
// renderer, so output goes to file, or nowhere when file is empty. The
// returned closer releases the file.
func NewLogger(level log.Level, file string) (*log.Logger, io.Closer, error) {
	if file == "" {
		return newLogger(io.Discard, level), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, level), f, nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "gridstorm",
		ReportTimestamp: true,
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
