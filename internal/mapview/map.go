// Package mapview is a minimal Web-Mercator map engine: a camera (centre and
// fractional zoom) over a pixel viewport, with pan/zoom/resize operations that
// notify subscribers synchronously.
//
// It draws no tiles. The host is responsible for painting whatever sits under
// the overlay.
package mapview

import (
	"math"

	"github.com/Garsondee/fogmap/internal/geo"
)

const (
	DefaultMinZoom = 0.0
	DefaultMaxZoom = 19.0
)

// Map holds the camera and viewport of one map view.
type Map struct {
	center  geo.Point
	zoom    float64
	width   int
	height  int
	minZoom float64
	maxZoom float64

	subs   map[EventKind]map[int]func(Event)
	nextID int
}

// New creates a map of the given viewport size.
func New(center geo.Point, zoom float64, width, height int) *Map {
	m := &Map{
		center:  center.Clamped(),
		width:   width,
		height:  height,
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
		subs:    make(map[EventKind]map[int]func(Event)),
	}
	m.zoom = m.clampZoom(zoom)
	return m
}

// SetZoomLimits changes the allowed zoom range and re-clamps the current zoom.
func (m *Map) SetZoomLimits(lo, hi float64) {
	if hi < lo {
		lo, hi = hi, lo
	}
	m.minZoom = math.Max(0, lo)
	m.maxZoom = math.Min(geo.MaxZoom, hi)
	if z := m.clampZoom(m.zoom); z != m.zoom {
		m.SetZoom(z)
	}
}

// Camera returns a snapshot of the current camera.
func (m *Map) Camera() geo.Camera {
	return geo.Camera{Center: m.center, Zoom: m.zoom}
}

func (m *Map) Zoom() float64 { return m.zoom }

func (m *Map) Center() geo.Point { return m.center }

// Size returns the viewport in pixels.
func (m *Map) Size() (int, int) { return m.width, m.height }

// Project converts a geographic point into viewport pixels for the current
// camera. Points far outside the view still return finite coordinates. The
// world repeats east-west, so p is placed on the copy nearest the centre.
func (m *Map) Project(p geo.Point) geo.ScreenPoint {
	px, py := geo.ToWorld(p, m.zoom)
	cx, cy := geo.ToWorld(m.center, m.zoom)
	size := geo.WorldSize(m.zoom)
	dx := px - cx
	dx -= size * math.Round(dx/size)
	return geo.ScreenPoint{
		X: dx + float64(m.width)/2,
		Y: py - cy + float64(m.height)/2,
	}
}

// Unproject is the inverse of Project. Longitudes are wrapped into
// [-180, 180].
func (m *Map) Unproject(s geo.ScreenPoint) geo.Point {
	cx, cy := geo.ToWorld(m.center, m.zoom)
	wx := s.X - float64(m.width)/2 + cx
	wy := s.Y - float64(m.height)/2 + cy
	p := geo.FromWorld(wx, wy, m.zoom)
	p.Lon = geo.WrapLongitude(p.Lon)
	return p
}

// PanBy shifts the camera by a screen-space offset and emits EventMove.
func (m *Map) PanBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	cx, cy := geo.ToWorld(m.center, m.zoom)
	m.setCenter(geo.FromWorld(cx+dx, cy+dy, m.zoom))
}

// SetCenter moves the camera to p and emits EventMove.
func (m *Map) SetCenter(p geo.Point) {
	m.setCenter(p)
}

func (m *Map) setCenter(p geo.Point) {
	p = p.Clamped()
	if p == m.center {
		return
	}
	m.center = p
	m.emit(Event{Kind: EventMove, Camera: m.Camera(), Width: m.width, Height: m.height})
}

// SetZoom changes the zoom (clamped to the limits) and emits EventZoom.
func (m *Map) SetZoom(z float64) {
	z = m.clampZoom(z)
	if z == m.zoom {
		return
	}
	m.zoom = z
	m.emit(Event{Kind: EventZoom, Camera: m.Camera(), Width: m.width, Height: m.height})
}

// ZoomBy adds delta zoom levels.
func (m *Map) ZoomBy(delta float64) {
	m.SetZoom(m.zoom + delta)
}

// Resize changes the viewport and emits EventResize.
func (m *Map) Resize(w, h int) {
	if w == m.width && h == m.height {
		return
	}
	m.width, m.height = w, h
	m.emit(Event{Kind: EventResize, Camera: m.Camera(), Width: w, Height: h})
}

func (m *Map) clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return m.minZoom
	}
	return math.Max(m.minZoom, math.Min(m.maxZoom, z))
}
