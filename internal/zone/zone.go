package zone

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Type is the kind of content source backing a zone.
type Type uint8

const (
	TypeStatic Type = iota
	TypePipe
	TypeWatch
	TypePTY
	TypeFIFO
	TypeSocket
)

var typeNames = [...]string{
	TypeStatic: "static",
	TypePipe:   "pipe",
	TypeWatch:  "watch",
	TypePTY:    "pty",
	TypeFIFO:   "fifo",
	TypeSocket: "socket",
}

// String returns the lowercase type name used in records.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// ParseType parses a type name case-insensitively.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TypeStatic, nil
	}
	for t, name := range typeNames {
		if name == s {
			return Type(t), nil
		}
	}
	return TypeStatic, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Streaming reports whether new content is appended at the bottom.
func (t Type) Streaming() bool {
	return t == TypeFIFO || t == TypeSocket
}

// Config describes a zone's content source. Only the fields relevant to
// Type are meaningful.
type Config struct {
	Type            Type
	Command         string
	RefreshInterval time.Duration
	Shell           string
	Path            string
	Port            int
}

// Validate checks the fields required by the type.
func (c Config) Validate() error {
	switch c.Type {
	case TypePipe:
		if strings.TrimSpace(c.Command) == "" {
			return fmt.Errorf("%w: pipe zone needs a command", ErrInvalidConfig)
		}
	case TypeWatch:
		if strings.TrimSpace(c.Command) == "" {
			return fmt.Errorf("%w: watch zone needs a command", ErrInvalidConfig)
		}
		if c.RefreshInterval <= 0 {
			return fmt.Errorf("%w: watch interval must be positive", ErrInvalidConfig)
		}
	case TypeFIFO:
		if c.Path == "" {
			return fmt.Errorf("%w: fifo zone needs a path", ErrInvalidConfig)
		}
	case TypeSocket:
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("%w: socket port %d out of range", ErrInvalidConfig, c.Port)
		}
	}
	return nil
}

// Source supplies live content for a zone, e.g. a terminal emulator.
type Source interface {
	// Lines returns the visible grid, scrolled back by offset lines.
	Lines(offset int) []string
	// Cursor returns the cursor position within the grid.
	Cursor() (x, y int)
}

// DefaultMaxLines bounds appended content of streaming zones.
const DefaultMaxLines = 1000

// Zone is a named rectangle with content. Geometry is changed only through
// the Manager; content may be written from any goroutine.
type Zone struct {
	mu sync.RWMutex

	name          string
	x, y          int
	width, height int
	description   string
	bookmark      rune
	cfg           Config

	lines    []string
	maxLines int
	updated  time.Time
	inert    bool
	reason   string
	source   Source
	scroll   int
}

func newZone(name string, x, y, w, h int, cfg Config, maxLines int) *Zone {
	return &Zone{name: name, x: x, y: y, width: w, height: h, cfg: cfg, maxLines: maxLines}
}

// Name returns the zone name with its original casing.
func (z *Zone) Name() string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.name
}

// Bounds returns the outer rectangle.
func (z *Zone) Bounds() (x, y, w, h int) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.x, z.y, z.width, z.height
}

// Interior returns the content rectangle inside the one-cell border. The
// size is at least 1x1.
func (z *Zone) Interior() (x, y, w, h int) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.x + 1, z.y + 1, max(z.width-2, 1), max(z.height-2, 1)
}

// Contains reports whether (x, y) lies inside the outer rectangle.
func (z *Zone) Contains(x, y int) bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return x >= z.x && x < z.x+z.width && y >= z.y && y < z.y+z.height
}

// Center returns the center cell of the zone.
func (z *Zone) Center() (x, y int) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.x + z.width/2, z.y + z.height/2
}

// Config returns the content-source configuration.
func (z *Zone) Config() Config {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.cfg
}

// Type returns the zone type.
func (z *Zone) Type() Type {
	return z.Config().Type
}

// Description returns the free-form description.
func (z *Zone) Description() string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.description
}

// SetDescription sets the free-form description.
func (z *Zone) SetDescription(s string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.description = s
}

// Bookmark returns the bookmark key bound to the zone, or 0.
func (z *Zone) Bookmark() rune {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.bookmark
}

// SetContent replaces the content.
func (z *Zone) SetContent(lines []string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.lines = append(z.lines[:0:0], lines...)
	z.updated = time.Now()
}

// SetText replaces the content with s split into lines. A single trailing
// newline does not produce an empty last line.
func (z *Zone) SetText(s string) {
	z.SetContent(splitLines(s))
}

// AppendLines appends lines, dropping the oldest beyond the line limit.
func (z *Zone) AppendLines(lines ...string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.lines = append(z.lines, lines...)
	if z.maxLines > 0 && len(z.lines) > z.maxLines {
		z.lines = append(z.lines[:0:0], z.lines[len(z.lines)-z.maxLines:]...)
	}
	z.updated = time.Now()
}

// ClearContent removes all content.
func (z *Zone) ClearContent() {
	z.SetContent(nil)
}

// Content returns a copy of the content. Zones with an attached source
// read it fresh on every call.
func (z *Zone) Content() []string {
	z.mu.RLock()
	src, scroll := z.source, z.scroll
	if src == nil {
		defer z.mu.RUnlock()
		return append([]string(nil), z.lines...)
	}
	z.mu.RUnlock()
	return src.Lines(scroll)
}

// View returns at most height lines to display. Streaming zones show the
// newest lines, moved back by the scroll offset; others show the top.
func (z *Zone) View(height int) []string {
	lines := z.Content()
	if height <= 0 {
		return nil
	}
	z.mu.RLock()
	streaming, scroll, hasSource := z.cfg.Type.Streaming(), z.scroll, z.source != nil
	z.mu.RUnlock()

	if hasSource || len(lines) <= height {
		if len(lines) > height {
			lines = lines[:height]
		}
		return lines
	}
	if !streaming {
		return lines[:height]
	}
	end := max(len(lines)-scroll, height)
	return lines[end-height : end]
}

// Scroll moves the scroll-back offset by delta lines, clamped at zero.
func (z *Zone) Scroll(delta int) int {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.scroll = max(z.scroll+delta, 0)
	return z.scroll
}

// ResetScroll returns to the live view.
func (z *Zone) ResetScroll() {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.scroll = 0
}

// ScrollOffset returns the scroll-back offset.
func (z *Zone) ScrollOffset() int {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.scroll
}

// AttachSource makes src the live content of the zone.
func (z *Zone) AttachSource(src Source) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.source = src
}

// DetachSource freezes the current source content as static lines.
func (z *Zone) DetachSource() {
	z.mu.Lock()
	src, scroll := z.source, z.scroll
	z.source = nil
	z.mu.Unlock()
	if src != nil {
		z.SetContent(src.Lines(scroll))
	}
}

// Source returns the attached source, or nil.
func (z *Zone) Source() Source {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.source
}

// MarkInert records that the zone's backing resource is gone. The content
// stays on screen.
func (z *Zone) MarkInert(reason string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.inert = true
	z.reason = reason
}

// Revive clears the inert state.
func (z *Zone) Revive() {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.inert = false
	z.reason = ""
}

// Inert reports whether the zone lost its resource, and why.
func (z *Zone) Inert() (bool, string) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.inert, z.reason
}

// Updated returns when the content last changed.
func (z *Zone) Updated() time.Time {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.updated
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
