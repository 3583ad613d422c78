package canvas

import (
	"reflect"
	"testing"
)

func TestCanvasSparse(t *testing.T) {
	c := New()
	c.Set(-1000000, 5, 'x')
	c.Set(3, 3, ' ')
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.Get(-1000000, 5) != 'x' || c.Get(0, 0) != ' ' {
		t.Error("Get mismatch")
	}
	c.Clear(-1000000, 5)
	if c.Len() != 0 {
		t.Error("Clear did not erase")
	}
}

func TestCanvasEachOrder(t *testing.T) {
	c := New()
	c.Set(5, 1, 'c')
	c.Set(0, 0, 'a')
	c.Set(2, 0, 'b')

	var got []rune
	c.Each(func(x, y int, r rune) bool {
		got = append(got, r)
		return true
	})
	if string(got) != "abc" {
		t.Errorf("Each order = %q, want abc", string(got))
	}
}

func TestCanvasEachMayModify(t *testing.T) {
	c := New()
	c.WriteString(0, 0, "abc")
	c.Each(func(x, y int, r rune) bool {
		c.Clear(x, y)
		return true
	})
	if c.Len() != 0 {
		t.Errorf("Len() = %d after clearing in Each", c.Len())
	}
}

func TestCanvasBoundsAndRegion(t *testing.T) {
	c := New()
	if _, _, _, _, ok := c.Bounds(); ok {
		t.Error("empty canvas should have no bounds")
	}
	c.WriteString(1, 1, "hi")
	c.Set(0, 3, '#')

	minX, minY, maxX, maxY, ok := c.Bounds()
	if !ok || minX != 0 || minY != 1 || maxX != 2 || maxY != 3 {
		t.Errorf("Bounds() = %d,%d,%d,%d,%v", minX, minY, maxX, maxY, ok)
	}

	got := c.Region(0, 1, 3, 3)
	want := []string{" hi", "", "#"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Region() = %q, want %q", got, want)
	}
}

func TestViewportEnsureVisible(t *testing.T) {
	v := NewViewport(20, 10)
	v.Margin = 2

	v.EnsureVisible(5, 5)
	if v.X != 0 || v.Y != 0 {
		t.Errorf("no scroll expected, got %d,%d", v.X, v.Y)
	}

	v.EnsureVisible(25, 5)
	if !v.Visible(25, 5) || v.X != 8 {
		t.Errorf("after right scroll X = %d", v.X)
	}

	v.EnsureVisible(-3, -7)
	if !v.Visible(-3, -7) || v.X != -5 || v.Y != -9 {
		t.Errorf("after up-left scroll = %d,%d", v.X, v.Y)
	}
}

func TestViewportTransform(t *testing.T) {
	v := NewViewport(80, 24)
	v.Pan(10, -4)
	sx, sy := v.CanvasToScreen(15, 0)
	if sx != 5 || sy != 4 {
		t.Errorf("CanvasToScreen = %d,%d", sx, sy)
	}
	x, y := v.ScreenToCanvas(sx, sy)
	if x != 15 || y != 0 {
		t.Errorf("ScreenToCanvas = %d,%d", x, y)
	}
}
