package geo

import "math"

const (
	// GroundResolution is the Web-Mercator meters-per-pixel at zoom 0 on the
	// equator for 256px tiles.
	GroundResolution = 156543.03392

	// TileSize is the edge length of one map tile in pixels.
	TileSize = 256.0

	// MaxLatitude is where the Web-Mercator projection becomes square.
	MaxLatitude = 85.05112878

	// MaxZoom bounds zoom input to the scale math; 2^30 is far past any tile
	// pyramid in use.
	MaxZoom = 30.0

	// MinPixelRadius and MaxPixelRadius bound a projected radius.
	MinPixelRadius = 1.0
	MaxPixelRadius = float64(1 << 20)
)

// ClampLatitude limits lat to ±MaxLatitude. NaN maps to the equator.
func ClampLatitude(lat float64) float64 {
	if math.IsNaN(lat) {
		return 0
	}
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

// ClampZoom limits z to [0, MaxZoom]. NaN maps to 0.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 0
	}
	return math.Max(0, math.Min(MaxZoom, z))
}

// MetersPerPixel returns the ground distance covered by one pixel at the given
// latitude and zoom. The cosine term is Mercator's east-west scale factor.
func MetersPerPixel(lat, zoom float64) float64 {
	latRad := ClampLatitude(lat) * math.Pi / 180
	return GroundResolution * math.Cos(latRad) / math.Pow(2, ClampZoom(zoom))
}

// PixelRadius converts a radius in meters into screen pixels. The second
// return is false when the raw value was not a usable number and had to be
// clamped into [MinPixelRadius, MaxPixelRadius].
func PixelRadius(meters, lat, zoom float64) (float64, bool) {
	mpp := MetersPerPixel(lat, zoom)
	r := meters / mpp
	switch {
	case math.IsNaN(r), r < 0:
		return MinPixelRadius, false
	case math.IsInf(r, 1):
		return MaxPixelRadius, false
	case r < MinPixelRadius:
		return MinPixelRadius, true
	case r > MaxPixelRadius:
		return MaxPixelRadius, true
	}
	return r, true
}

// WorldSize is the edge of the whole projected world in pixels at zoom z.
func WorldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

// ToWorld projects p to world pixels at zoom z. Latitudes beyond the Mercator
// limit are clamped.
func ToWorld(p Point, zoom float64) (x, y float64) {
	size := WorldSize(zoom)
	lat := ClampLatitude(p.Lat) * math.Pi / 180
	x = (p.Lon + 180) / 360 * size
	y = (1 - math.Log(math.Tan(lat)+1/math.Cos(lat))/math.Pi) / 2 * size
	return x, y
}

// FromWorld is the inverse of ToWorld.
func FromWorld(x, y, zoom float64) Point {
	size := WorldSize(zoom)
	lon := x/size*360 - 180
	n := math.Pi - 2*math.Pi*y/size
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return Point{Lon: lon, Lat: lat}
}
