package geo

import (
	"fmt"
	"math"
)

// Point is a WGS 84 coordinate in degrees.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Valid reports whether p is finite and inside the lon/lat domain.
func (p Point) Valid() bool {
	if !finite(p.Lon) || !finite(p.Lat) {
		return false
	}
	return p.Lon >= -180 && p.Lon <= 180 && p.Lat >= -90 && p.Lat <= 90
}

// Clamped returns p with longitude wrapped into [-180, 180] and latitude
// clamped to the Web-Mercator limit.
func (p Point) Clamped() Point {
	return Point{Lon: WrapLongitude(p.Lon), Lat: ClampLatitude(p.Lat)}
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// ScreenPoint is a position in surface pixels, origin top-left.
type ScreenPoint struct {
	X float64
	Y float64
}

// Finite reports whether both coordinates are real numbers.
func (s ScreenPoint) Finite() bool {
	return finite(s.X) && finite(s.Y)
}

// Camera is a snapshot of the map engine's view.
type Camera struct {
	Center Point
	Zoom   float64 // >= 0, fractional zooms allowed
}

// WrapLongitude folds lon into [-180, 180].
func WrapLongitude(lon float64) float64 {
	if !finite(lon) {
		return 0
	}
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
