// Package bookmark stores named canvas positions keyed by a single
// alphanumeric character.
package bookmark

import (
	"errors"
	"sort"

	"github.com/dshills/gridstorm/internal/input"
)

// ErrInvalidKey is returned for keys outside a-z and 0-9.
var ErrInvalidKey = errors.New("bookmark key must be a-z or 0-9")

// Bookmark is a saved canvas position.
type Bookmark struct {
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Store maps lowercase keys to bookmarks. It is owned by the input
// goroutine and is not safe for concurrent use.
type Store struct {
	marks map[rune]Bookmark
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{marks: make(map[rune]Bookmark)}
}

// Set saves a bookmark, replacing any previous one under the same key.
func (s *Store) Set(k rune, x, y int, name string) error {
	k, ok := input.NormalizeKey(k)
	if !ok {
		return ErrInvalidKey
	}
	s.marks[k] = Bookmark{X: x, Y: y, Name: name}
	return nil
}

// Get returns the bookmark for k.
func (s *Store) Get(k rune) (Bookmark, bool) {
	k, ok := input.NormalizeKey(k)
	if !ok {
		return Bookmark{}, false
	}
	b, ok := s.marks[k]
	return b, ok
}

// Delete removes the bookmark for k and reports whether it existed.
func (s *Store) Delete(k rune) bool {
	k, ok := input.NormalizeKey(k)
	if !ok {
		return false
	}
	if _, ok := s.marks[k]; !ok {
		return false
	}
	delete(s.marks, k)
	return true
}

// Clear removes all bookmarks.
func (s *Store) Clear() {
	clear(s.marks)
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.marks)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []rune {
	keys := make([]rune, 0, len(s.marks))
	for k := range s.marks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// All returns a copy of every bookmark keyed by its one-character string.
func (s *Store) All() map[string]Bookmark {
	out := make(map[string]Bookmark, len(s.marks))
	for k, b := range s.marks {
		out[string(k)] = b
	}
	return out
}

// Load replaces the store contents. Entries with invalid keys are skipped
// and reported in the returned error.
func (s *Store) Load(marks map[string]Bookmark) error {
	s.Clear()
	var errs []error
	for k, b := range marks {
		r := []rune(k)
		if len(r) != 1 {
			errs = append(errs, ErrInvalidKey)
			continue
		}
		if err := s.Set(r[0], b.X, b.Y, b.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
