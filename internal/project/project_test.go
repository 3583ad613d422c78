package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/gridstorm/internal/engine/canvas"
	"github.com/dshills/gridstorm/internal/input/bookmark"
	"github.com/dshills/gridstorm/internal/zone"
)

func newState() State {
	return State{
		Canvas:    canvas.New(),
		Bookmarks: bookmark.NewStore(),
		Zones:     zone.NewManager(),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := newState()
	src.Canvas.WriteString(0, 0, "hi")
	src.Canvas.Set(-5, 7, 'é')
	if err := src.Bookmarks.Set('a', 10, 4, "home"); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Zones.Create("notes", 20, 2, 10, 4, zone.Config{Type: zone.TypeStatic}); err != nil {
		t.Fatal(err)
	}
	src.Cursor = Point{X: 3, Y: 1}
	src.Origin = Point{X: -2, Y: -2}

	path := filepath.Join(t.TempDir(), "sub", "board.json")
	if err := Save(path, Capture(src)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	dst := newState()
	dst.Canvas.Set(100, 100, 'x')
	cursor, origin, err := doc.Restore(dst)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if cursor != src.Cursor || origin != src.Origin {
		t.Errorf("cursor, origin = %v, %v", cursor, origin)
	}
	if dst.Canvas.Len() != 3 {
		t.Errorf("Len() = %d, want 3", dst.Canvas.Len())
	}
	if got := dst.Canvas.Get(-5, 7); got != 'é' {
		t.Errorf("Get(-5, 7) = %q", got)
	}
	if got := dst.Canvas.Get(100, 100); got != ' ' {
		t.Errorf("old cell survived restore: %q", got)
	}
	if b, ok := dst.Bookmarks.Get('a'); !ok || b.X != 10 || b.Name != "home" {
		t.Errorf("bookmark a = %+v, %v", b, ok)
	}
	if !reflect.DeepEqual(dst.Zones.Records(), src.Zones.Records()) {
		t.Errorf("zones = %+v, want %+v", dst.Zones.Records(), src.Zones.Records())
	}
}

func TestCaptureRowMajor(t *testing.T) {
	s := newState()
	s.Canvas.Set(5, 1, 'b')
	s.Canvas.Set(9, 0, 'a')
	s.Canvas.Set(0, 1, 'c')

	doc := Capture(s)
	want := []Cell{{9, 0, "a"}, {0, 1, "c"}, {5, 1, "b"}}
	if !reflect.DeepEqual(doc.Cells, want) {
		t.Errorf("Cells = %v, want %v", doc.Cells, want)
	}
	if doc.Version != Version {
		t.Errorf("Version = %d", doc.Version)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", "{", ErrInvalidDocument},
		{"no version", `{"cells": []}`, ErrInvalidDocument},
		{"future version", `{"version": 99}`, ErrUnsupportedVersion},
		{"long cell", `{"version": 1, "cells": [{"x": 0, "y": 0, "c": "ab"}]}`, ErrInvalidDocument},
		{"empty cell", `{"version": 1, "cells": [{"x": 0, "y": 0, "c": ""}]}`, ErrInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRestoreReportsBadZones(t *testing.T) {
	doc, err := Parse([]byte(`{
		"version": 1,
		"cells": [{"x": 1, "y": 1, "c": "#"}],
		"zones": [
			{"name": "ok", "type": "static", "x": 0, "y": 0, "width": 3, "height": 3},
			{"name": "bad", "type": "hologram", "x": 0, "y": 5, "width": 3, "height": 3}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newState()
	_, _, err = doc.Restore(s)
	if !errors.Is(err, zone.ErrUnknownType) {
		t.Errorf("Restore() error = %v", err)
	}
	if s.Zones.Len() != 1 || s.Canvas.Get(1, 1) != '#' {
		t.Errorf("partial restore: zones=%d cell=%q", s.Zones.Len(), s.Canvas.Get(1, 1))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	var perr *PathError
	if !errors.As(err, &perr) || perr.Op != "open" {
		t.Fatalf("Load() error = %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error does not wrap ErrNotExist: %v", err)
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "new" {
		t.Fatalf("content = %q, %v", data, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
