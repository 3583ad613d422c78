package zone

import "math"

// Direction arrows used to point at off-screen zones.
const (
	ArrowCenter    = '•'
	ArrowUp        = '↑'
	ArrowDown      = '↓'
	ArrowLeft      = '←'
	ArrowRight     = '→'
	ArrowUpLeft    = '↖'
	ArrowUpRight   = '↗'
	ArrowDownLeft  = '↙'
	ArrowDownRight = '↘'
)

// Nearby is the result of a nearest-zone query.
type Nearby struct {
	Zone *Zone

	// Distance is the Euclidean distance from the point to the closest
	// cell of the zone; zero when the point is inside.
	Distance float64

	// Arrow points from the point toward the zone center.
	Arrow rune
}

// Nearest returns the zone closest to (x, y). With excludeContaining set,
// zones containing the point are skipped. Ties keep creation order.
func (m *Manager) Nearest(x, y int, excludeContaining bool) (Nearby, bool) {
	var best Nearby
	found := false
	for _, z := range m.List() {
		if excludeContaining && z.Contains(x, y) {
			continue
		}
		d := edgeDistance(z, x, y)
		if !found || d < best.Distance {
			cx, cy := z.Center()
			best = Nearby{Zone: z, Distance: d, Arrow: Arrow(cx-x, cy-y)}
			found = true
		}
	}
	return best, found
}

func edgeDistance(z *Zone, x, y int) float64 {
	zx, zy, w, h := z.Bounds()
	dx := max(zx-x, 0, x-(zx+w-1))
	dy := max(zy-y, 0, y-(zy+h-1))
	return math.Hypot(float64(dx), float64(dy))
}

// Arrow picks one of eight arrows for the offset (dx, dy), with y growing
// downward. An axis wins outright when it is more than twice the other;
// otherwise the arrow is diagonal.
func Arrow(dx, dy int) rune {
	if dx == 0 && dy == 0 {
		return ArrowCenter
	}
	ax, ay := abs(dx), abs(dy)
	switch {
	case ax > 2*ay:
		if dx > 0 {
			return ArrowRight
		}
		return ArrowLeft
	case ay > 2*ax:
		if dy > 0 {
			return ArrowDown
		}
		return ArrowUp
	}
	switch {
	case dx > 0 && dy > 0:
		return ArrowDownRight
	case dx > 0:
		return ArrowUpRight
	case dy > 0:
		return ArrowDownLeft
	default:
		return ArrowUpLeft
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
