package fog

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/Garsondee/fogmap/internal/geo"
)

// fixedProjector places every point at the same screen position.
func fixedProjector(x, y float64) Projector {
	return ProjectorFunc(func(geo.Point) geo.ScreenPoint { return geo.ScreenPoint{X: x, Y: y} })
}

func newTestRenderer(w, h int, proj Projector) (*Renderer, *Raster) {
	s := NewRaster(w, h)
	return NewRenderer(s, proj, Options{}), s
}

var refCamera = geo.Camera{Center: geo.Point{}, Zoom: 13}
var refEntity = Entity{Position: geo.Point{}}

func TestRepaint_ReferenceScenario(t *testing.T) {
	r, s := newTestRenderer(400, 300, fixedProjector(200, 150))
	f := r.Repaint(refCamera, refEntity)
	if f.Err != nil {
		t.Fatalf("unexpected error: %v", f.Err)
	}
	if !f.Revealed {
		t.Fatal("expected the hole to be punched")
	}
	if math.Abs(f.PixelRadius-104.67) > 0.01 {
		t.Fatalf("expected ~104.67 px radius, got %.4f", f.PixelRadius)
	}
	if a := s.At(200, 150).A; a != 0 {
		t.Fatalf("centre pixel should be fully revealed, alpha=%d", a)
	}
	if a := s.At(0, 0).A; a != r.FogColor().A {
		t.Fatalf("corner should hold fog alpha %d, got %d", r.FogColor().A, a)
	}
}

func TestRepaint_AlphaProfileAlongRadius(t *testing.T) {
	r, s := newTestRenderer(400, 300, fixedProjector(200, 150))
	f := r.Repaint(refCamera, refEntity)
	fogA := r.FogColor().A
	prev := uint8(0)
	for x := 200; x < 200+int(f.PixelRadius)+3 && x < 400; x++ {
		a := s.At(x, 150).A
		if a < prev {
			t.Fatalf("fog alpha decreased moving outward at x=%d: %d -> %d", x, prev, a)
		}
		if a > fogA {
			t.Fatalf("alpha %d exceeds fog alpha %d at x=%d", a, fogA, x)
		}
		prev = a
	}
	if prev != fogA {
		t.Fatalf("expected full fog just beyond the radius, got %d", prev)
	}
	// Inside the hard-clear zone.
	if a := s.At(200+int(0.15*f.PixelRadius), 150).A; a != 0 {
		t.Fatalf("inner zone should be clear, got alpha %d", a)
	}
}

func TestRepaint_Idempotent(t *testing.T) {
	r, s := newTestRenderer(320, 240, fixedProjector(100, 80))
	r.Repaint(refCamera, refEntity)
	first := append([]uint8(nil), s.Image().Pix...)
	r.Repaint(refCamera, refEntity)
	if !bytes.Equal(first, s.Image().Pix) {
		t.Fatal("repainting the same snapshot should be pixel-identical")
	}
}

func TestRepaint_EntityMoveOnlyMovesHole(t *testing.T) {
	var pos geo.ScreenPoint
	proj := ProjectorFunc(func(geo.Point) geo.ScreenPoint { return pos })
	r, s := newTestRenderer(600, 300, proj)

	pos = geo.ScreenPoint{X: 150, Y: 150}
	f1 := r.Repaint(refCamera, refEntity)
	pos = geo.ScreenPoint{X: 450, Y: 150}
	f2 := r.Repaint(refCamera, Entity{Position: geo.Point{Lon: 0.01}})

	if math.Abs(f1.PixelRadius-f2.PixelRadius) > 1e-9 {
		t.Fatalf("radius should not change with a longitude-only move: %v vs %v", f1.PixelRadius, f2.PixelRadius)
	}
	fogA := r.FogColor().A
	if a := s.At(150, 150).A; a != fogA {
		t.Fatalf("old hole centre should be fogged again, alpha=%d", a)
	}
	if a := s.At(450, 150).A; a != 0 {
		t.Fatalf("new hole centre should be clear, alpha=%d", a)
	}
	for _, p := range [][2]int{{0, 0}, {599, 0}, {0, 299}, {300, 10}} {
		if got := s.At(p[0], p[1]); got.A != fogA {
			t.Fatalf("pixel %v outside the hole changed: %+v", p, got)
		}
	}
}

func TestRepaint_MissingSurface(t *testing.T) {
	r := NewRenderer(NewRaster(0, 0), fixedProjector(0, 0), Options{})
	f := r.Repaint(refCamera, refEntity)
	if !errors.Is(f.Err, ErrMissingSurface) {
		t.Fatalf("expected ErrMissingSurface, got %v", f.Err)
	}
	if f.Revealed {
		t.Fatal("nothing should be revealed without a surface")
	}

	nilSurface := NewRenderer(nil, fixedProjector(0, 0), Options{})
	if f := nilSurface.Repaint(refCamera, refEntity); !errors.Is(f.Err, ErrMissingSurface) {
		t.Fatalf("expected ErrMissingSurface for nil surface, got %v", f.Err)
	}
}

func TestRepaint_DegenerateProjectionLeavesFullFog(t *testing.T) {
	r, s := newTestRenderer(64, 64, fixedProjector(math.NaN(), 32))
	f := r.Repaint(refCamera, refEntity)
	if !errors.Is(f.Err, ErrDegenerateProjection) {
		t.Fatalf("expected ErrDegenerateProjection, got %v", f.Err)
	}
	fogA := r.FogColor().A
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if s.At(x, y).A != fogA {
				t.Fatalf("pixel (%d,%d) should be fully fogged", x, y)
			}
		}
	}
	if s.Composite() != CompositeSourceOver {
		t.Fatalf("composite mode should be source-over, got %v", s.Composite())
	}
}

func TestRepaint_RestoresCompositeMode(t *testing.T) {
	r, s := newTestRenderer(64, 64, fixedProjector(32, 32))
	r.Repaint(refCamera, refEntity)
	if s.Composite() != CompositeSourceOver {
		t.Fatalf("erase mode leaked past repaint: %v", s.Composite())
	}
}

func TestRepaint_ResizeDiscardsStaleContent(t *testing.T) {
	r, s := newTestRenderer(100, 100, fixedProjector(50, 50))
	r.Repaint(refCamera, refEntity)

	s.Resize(180, 90)
	if w, h := s.Size(); w != 180 || h != 90 {
		t.Fatalf("expected 180x90 after resize, got %dx%d", w, h)
	}
	if a := s.At(10, 10).A; a != 0 {
		t.Fatalf("resize should discard old content, alpha=%d", a)
	}

	r2 := NewRenderer(s, fixedProjector(160, 45), Options{})
	r2.Repaint(refCamera, refEntity)
	if a := s.At(50, 50).A; a != r2.FogColor().A {
		t.Fatalf("old hole position should be fogged after resize+repaint, alpha=%d", a)
	}
	if a := s.At(160, 45).A; a != 0 {
		t.Fatalf("new hole should be clear, alpha=%d", a)
	}
}

func TestRepaint_PoleLatitudeStaysBounded(t *testing.T) {
	r, _ := newTestRenderer(64, 64, fixedProjector(32, 32))
	f := r.Repaint(geo.Camera{Zoom: 20}, Entity{Position: geo.Point{Lat: 90}})
	if math.IsNaN(f.PixelRadius) || math.IsInf(f.PixelRadius, 0) {
		t.Fatalf("radius must be finite near the pole, got %v", f.PixelRadius)
	}
	if f.PixelRadius > geo.MaxPixelRadius {
		t.Fatalf("radius %v exceeds max %v", f.PixelRadius, geo.MaxPixelRadius)
	}
}

func TestNewRenderer_Defaults(t *testing.T) {
	r := NewRenderer(NewRaster(1, 1), nil, Options{FogAlpha: 3, RadiusMeters: -1})
	if r.RadiusMeters() != DefaultRadiusMeters {
		t.Fatalf("expected default radius, got %v", r.RadiusMeters())
	}
	if r.FogColor() != (color.NRGBA{A: 230}) {
		t.Fatalf("expected black at 0.9 alpha, got %+v", r.FogColor())
	}
}
