package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/dshills/gridstorm/internal/engine/canvas"
	"github.com/dshills/gridstorm/internal/input/bookmark"
	"github.com/dshills/gridstorm/internal/zone"
)

// Version is the document version written by Save.
const Version = 1

// Point is a canvas position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is one non-blank canvas cell.
type Cell struct {
	X int    `json:"x"`
	Y int    `json:"y"`
	C string `json:"c"`
}

// Document is the saved form of a session.
type Document struct {
	Version   int                          `json:"version"`
	Cells     []Cell                       `json:"cells"`
	Bookmarks map[string]bookmark.Bookmark `json:"bookmarks,omitempty"`
	Zones     []zone.Record                `json:"zones,omitempty"`
	Cursor    Point                        `json:"cursor"`
	Origin    Point                        `json:"origin"`
}

// State is what a Document is captured from and restored into.
type State struct {
	Canvas    *canvas.Canvas
	Bookmarks *bookmark.Store
	Zones     *zone.Manager
	Cursor    Point
	Origin    Point
}

// Capture builds a document from the live session. Cells are listed in
// row-major order so saved files diff cleanly.
func Capture(s State) *Document {
	doc := &Document{
		Version: Version,
		Cells:   make([]Cell, 0, s.Canvas.Len()),
		Cursor:  s.Cursor,
		Origin:  s.Origin,
	}
	s.Canvas.Each(func(x, y int, r rune) bool {
		doc.Cells = append(doc.Cells, Cell{X: x, Y: y, C: string(r)})
		return true
	})
	if s.Bookmarks != nil && s.Bookmarks.Len() > 0 {
		doc.Bookmarks = s.Bookmarks.All()
	}
	if s.Zones != nil {
		doc.Zones = s.Zones.Records()
	}
	return doc
}

// Validate checks the document without touching any session state.
func (d *Document) Validate() error {
	if d.Version < 1 {
		return fmt.Errorf("%w: missing version", ErrInvalidDocument)
	}
	if d.Version > Version {
		return fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, d.Version, Version)
	}
	var errs []error
	for i, c := range d.Cells {
		if utf8.RuneCountInString(c.C) != 1 {
			errs = append(errs, fmt.Errorf("%w: cell %d at (%d,%d) holds %q", ErrInvalidDocument, i, c.X, c.Y, c.C))
		}
	}
	return errors.Join(errs...)
}

// Restore replaces the canvas contents, bookmarks and zones with the
// document's. The returned cursor and origin are for the caller to apply.
// Bookmarks and zones that cannot be restored are skipped and reported
// together; everything else is still applied.
func (d *Document) Restore(s State) (cursor, origin Point, err error) {
	if err := d.Validate(); err != nil {
		return Point{}, Point{}, err
	}

	s.Canvas.ClearAll()
	for _, c := range d.Cells {
		r, _ := utf8.DecodeRuneInString(c.C)
		s.Canvas.Set(c.X, c.Y, r)
	}

	var errs []error
	if s.Bookmarks != nil {
		if err := s.Bookmarks.Load(d.Bookmarks); err != nil {
			errs = append(errs, fmt.Errorf("bookmarks: %w", err))
		}
	}
	if s.Zones != nil {
		s.Zones.Clear()
		if err := s.Zones.Load(d.Zones); err != nil {
			errs = append(errs, err)
		}
	}
	return d.Cursor, d.Origin, errors.Join(errs...)
}

// Marshal encodes the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes the document to path atomically.
func Save(path string, d *Document) error {
	if d.Version == 0 {
		d.Version = Version
	}
	data, err := d.Marshal()
	if err != nil {
		return NewPathError("encode", path, err)
	}
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return NewPathError("save", path, err)
	}
	return nil
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewPathError("open", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, NewPathError("load", path, err)
	}
	return doc, nil
}
