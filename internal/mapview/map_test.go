package mapview

import (
	"math"
	"testing"

	"github.com/Garsondee/fogmap/internal/geo"
)

var bilbao = geo.Point{Lon: -2.934, Lat: 43.263}

func TestProject_CenterMapsToViewportCenter(t *testing.T) {
	m := New(bilbao, 13, 800, 600)
	s := m.Project(bilbao)
	if math.Abs(s.X-400) > 1e-6 || math.Abs(s.Y-300) > 1e-6 {
		t.Fatalf("camera centre should project to (400,300), got (%.4f,%.4f)", s.X, s.Y)
	}
}

func TestProject_UnprojectRoundTrip(t *testing.T) {
	m := New(bilbao, 15.5, 1024, 768)
	for _, sp := range []geo.ScreenPoint{{X: 0, Y: 0}, {X: 1023, Y: 767}, {X: 100, Y: 600}} {
		p := m.Unproject(sp)
		back := m.Project(p)
		if math.Abs(back.X-sp.X) > 1e-6 || math.Abs(back.Y-sp.Y) > 1e-6 {
			t.Fatalf("round trip %v -> %v -> %v", sp, p, back)
		}
	}
}

func TestProject_AcrossAntimeridian(t *testing.T) {
	m := New(geo.Point{Lon: 179.995, Lat: 0}, 13, 800, 600)
	east := geo.Point{Lon: -179.995, Lat: 0}
	want := 400 + 0.01/360*geo.WorldSize(13)

	s := m.Project(east)
	if math.Abs(s.X-want) > 1e-6 || math.Abs(s.Y-300) > 1e-6 {
		t.Fatalf("point 0.01 deg east across the antimeridian should land at (%.2f,300), got (%.2f,%.2f)", want, s.X, s.Y)
	}
	if west := m.Project(geo.Point{Lon: 179.985, Lat: 0}); west.X >= 400 {
		t.Fatalf("point west of the centre should stay left of it, got x=%.2f", west.X)
	}

	p := m.Unproject(s)
	if p.Lon < -180 || p.Lon > 180 || math.Abs(p.Lon-east.Lon) > 1e-9 {
		t.Fatalf("unproject should wrap back to %v, got %v", east, p)
	}
}

func TestPanBy_EmitsMoveAndShiftsProjection(t *testing.T) {
	m := New(bilbao, 14, 800, 600)
	var got []Event
	m.On(EventMove, func(ev Event) { got = append(got, ev) })

	before := m.Project(bilbao)
	m.PanBy(50, -20)
	after := m.Project(bilbao)

	if len(got) != 1 {
		t.Fatalf("expected 1 move event, got %d", len(got))
	}
	if got[0].Camera != m.Camera() {
		t.Fatalf("event camera %+v should match map camera %+v", got[0].Camera, m.Camera())
	}
	if math.Abs((before.X-after.X)-50) > 1e-6 || math.Abs((before.Y-after.Y)+20) > 1e-6 {
		t.Fatalf("panning by (50,-20) should shift points by (-50,+20): %v -> %v", before, after)
	}
}

func TestSetZoom_ClampsAndEmitsOnce(t *testing.T) {
	m := New(bilbao, 10, 800, 600)
	zooms := 0
	m.On(EventZoom, func(Event) { zooms++ })

	m.SetZoom(25)
	if m.Zoom() != DefaultMaxZoom {
		t.Fatalf("zoom should clamp to %v, got %v", DefaultMaxZoom, m.Zoom())
	}
	m.SetZoom(30) // already at max, no change
	m.ZoomBy(-100)
	if m.Zoom() != DefaultMinZoom {
		t.Fatalf("zoom should clamp to %v, got %v", DefaultMinZoom, m.Zoom())
	}
	if zooms != 2 {
		t.Fatalf("expected 2 zoom events, got %d", zooms)
	}
}

func TestResize_EmitsWithNewSize(t *testing.T) {
	m := New(bilbao, 10, 800, 600)
	var ev Event
	m.On(EventResize, func(e Event) { ev = e })
	m.Resize(1280, 720)
	if ev.Kind != EventResize || ev.Width != 1280 || ev.Height != 720 {
		t.Fatalf("unexpected resize event %+v", ev)
	}
	m.Resize(1280, 720)
	if w, h := m.Size(); w != 1280 || h != 720 {
		t.Fatalf("expected size 1280x720, got %dx%d", w, h)
	}
}

func TestOn_CancelStopsDelivery(t *testing.T) {
	m := New(bilbao, 10, 800, 600)
	calls := 0
	cancel := m.On(EventMove, func(Event) { calls++ })
	m.PanBy(1, 0)
	cancel()
	cancel()
	m.PanBy(1, 0)
	if calls != 1 {
		t.Fatalf("expected 1 call before cancel, got %d", calls)
	}
	if n := m.Subscribers(EventMove); n != 0 {
		t.Fatalf("expected no subscribers after cancel, got %d", n)
	}
}

func TestEmit_RegistrationOrder(t *testing.T) {
	m := New(bilbao, 10, 800, 600)
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		m.On(EventZoom, func(Event) { order = append(order, i) })
	}
	m.ZoomBy(1)
	for i, v := range order {
		if v != i {
			t.Fatalf("handlers ran out of order: %v", order)
		}
	}
}

func TestMarker_Visible(t *testing.T) {
	m := New(bilbao, 13, 800, 600)
	mk := &Marker{Label: "walker", Pos: bilbao}
	if !m.Visible(mk, 0) {
		t.Fatal("marker at camera centre should be visible")
	}
	mk.Pos = geo.Point{Lon: bilbao.Lon + 1, Lat: bilbao.Lat}
	if m.Visible(mk, 16) {
		t.Fatal("marker a degree away at zoom 13 should be off-screen")
	}
}
