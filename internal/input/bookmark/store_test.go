package bookmark

import (
	"errors"
	"testing"
)

func TestStoreCaseInsensitive(t *testing.T) {
	s := NewStore()
	if err := s.Set('A', 3, 4, "home"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	b, ok := s.Get('a')
	if !ok {
		t.Fatal("Get('a') missing after Set('A')")
	}
	if b.X != 3 || b.Y != 4 || b.Name != "home" {
		t.Errorf("Get('a') = %+v", b)
	}

	if err := s.Set('a', 9, 9, ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStoreInvalidKey(t *testing.T) {
	s := NewStore()
	for _, k := range []rune{'!', ' ', 'é', 0} {
		if err := s.Set(k, 0, 0, ""); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidKey", k, err)
		}
	}
}

func TestStoreDeleteAndClear(t *testing.T) {
	s := NewStore()
	_ = s.Set('1', 0, 0, "")
	_ = s.Set('b', 1, 1, "")

	if !s.Delete('B') {
		t.Error("Delete('B') = false, want true")
	}
	if s.Delete('b') {
		t.Error("second Delete('b') = true, want false")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d", s.Len())
	}
}

func TestStoreKeysSorted(t *testing.T) {
	s := NewStore()
	for _, k := range []rune{'z', '3', 'a'} {
		_ = s.Set(k, 0, 0, "")
	}
	got := string(s.Keys())
	if got != "3az" {
		t.Errorf("Keys() = %q, want %q", got, "3az")
	}
}

func TestStoreLoad(t *testing.T) {
	s := NewStore()
	err := s.Load(map[string]Bookmark{
		"q":  {X: 1, Y: 2},
		"R":  {X: 5, Y: 6, Name: "r"},
		"xx": {},
	})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Load error = %v, want ErrInvalidKey", err)
	}
	if _, ok := s.Get('r'); !ok {
		t.Error("loaded uppercase key not normalized")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
