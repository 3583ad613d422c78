// Package layout reads and writes YAML layout templates: a reusable set of
// zones and bookmarks that can be placed on any canvas.
//
//	name: monitoring
//	description: clock and load average
//	cursor: {x: 0, y: 0}
//	zones:
//	  - name: clock
//	    type: watch
//	    command: date
//	    interval: 1
//	    x: 0
//	    y: 0
//	    width: 32
//	    height: 3
//	bookmarks:
//	  c: {x: 0, y: 0, name: clock}
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/input/bookmark"
	"github.com/dshills/gridstorm/internal/project"
	"github.com/dshills/gridstorm/internal/zone"
)

var (
	// ErrEmpty is returned for a document with no content.
	ErrEmpty = errors.New("empty layout")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid layout")
)

// Point is a canvas position.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Layout is a template of zones and bookmarks.
type Layout struct {
	Name        string                       `yaml:"name,omitempty"`
	Description string                       `yaml:"description,omitempty"`
	Cursor      *Point                       `yaml:"cursor,omitempty"`
	Zones       []zone.Record                `yaml:"zones,omitempty"`
	Bookmarks   map[string]bookmark.Bookmark `yaml:"bookmarks,omitempty"`
}

// Validate reports every problem found in the layout.
func (l *Layout) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	names := make(map[string]int, len(l.Zones))
	marks := make(map[rune]string)
	for i, r := range l.Zones {
		if err := r.Validate(); err != nil {
			bad("zones[%d] %s: %v", i, r.Name, err)
			continue
		}
		key := strings.ToLower(r.Name)
		if j, dup := names[key]; dup {
			bad("zones[%d] %s: duplicate of zones[%d]", i, r.Name, j)
		}
		names[key] = i
		if r.Bookmark != "" {
			k, _ := input.NormalizeKey([]rune(r.Bookmark)[0])
			if other, dup := marks[k]; dup {
				bad("zones[%d] %s: bookmark %q already used by %s", i, r.Name, r.Bookmark, other)
			}
			marks[k] = r.Name
		}
	}

	for _, k := range slices.Sorted(maps.Keys(l.Bookmarks)) {
		rs := []rune(k)
		if len(rs) != 1 {
			bad("bookmarks.%s: key must be one character", k)
			continue
		}
		if _, ok := input.NormalizeKey(rs[0]); !ok {
			bad("bookmarks.%s: key must be a-z or 0-9", k)
		}
	}
	return errors.Join(errs...)
}

// Parse decodes a YAML layout. Unknown fields are rejected so typos in
// hand-written templates are reported instead of ignored.
func Parse(data []byte) (*Layout, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var l Layout
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads and validates the layout at path.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Marshal encodes the layout as YAML with two-space indentation.
func (l *Layout) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save validates the layout and writes it to path atomically.
func (l *Layout) Save(path string) error {
	if err := l.Validate(); err != nil {
		return err
	}
	data, err := l.Marshal()
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return project.WriteFileAtomic(path, data, 0o644)
}

// Offset returns a copy with every zone, bookmark and the cursor shifted
// by (dx, dy), for placing a template somewhere other than where it was
// saved.
func (l *Layout) Offset(dx, dy int) *Layout {
	out := &Layout{
		Name:        l.Name,
		Description: l.Description,
		Zones:       slices.Clone(l.Zones),
	}
	if l.Cursor != nil {
		out.Cursor = &Point{X: l.Cursor.X + dx, Y: l.Cursor.Y + dy}
	}
	for i := range out.Zones {
		out.Zones[i].X += dx
		out.Zones[i].Y += dy
	}
	if l.Bookmarks != nil {
		out.Bookmarks = make(map[string]bookmark.Bookmark, len(l.Bookmarks))
		for k, b := range l.Bookmarks {
			b.X += dx
			b.Y += dy
			out.Bookmarks[k] = b
		}
	}
	return out
}
