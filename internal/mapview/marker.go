package mapview

import "github.com/Garsondee/fogmap/internal/geo"

// Marker is a point feature the host draws at its projected position.
type Marker struct {
	Label string
	Pos   geo.Point
}

// ScreenPos projects the marker through the map's current camera.
func (m *Map) ScreenPos(mk *Marker) geo.ScreenPoint {
	return m.Project(mk.Pos)
}

// Visible reports whether the marker lies inside the viewport, with margin
// pixels of slack on every side.
func (m *Map) Visible(mk *Marker, margin float64) bool {
	s := m.ScreenPos(mk)
	if !s.Finite() {
		return false
	}
	return s.X >= -margin && s.Y >= -margin &&
		s.X <= float64(m.width)+margin && s.Y <= float64(m.height)+margin
}
