package overlay

import (
	"io"
	"log/slog"

	"github.com/Garsondee/fogmap/internal/feed"
	"github.com/Garsondee/fogmap/internal/fog"
	"github.com/Garsondee/fogmap/internal/geo"
	"github.com/Garsondee/fogmap/internal/mapview"
)

// Sim is a headless overlay: map engine, CPU raster, renderer and a seeded
// walker stepped by hand instead of by a timer. It mirrors what the ebiten
// host does each frame and is used by tests and cmd/headless-report.
type Sim struct {
	Map      *mapview.Map
	Surface  *fog.Raster
	Renderer *fog.Renderer
	Overlay  *Overlay
	Walker   *feed.Walker
	Marker   *mapview.Marker
	Log      *EventLog
	Tick     int

	width    int
	height   int
	center   geo.Point
	start    geo.Point
	startSet bool
	zoom     float64
	seed     int64
	follow   bool
	verbose  bool
	step     float64
	fogOpts  fog.Options
	logger   *slog.Logger
}

// SimOption is a builder function applied to a Sim during construction.
type SimOption func(*Sim)

// WithViewport sets the viewport size in pixels.
func WithViewport(w, h int) SimOption {
	return func(s *Sim) { s.width, s.height = w, h }
}

// WithCamera sets the initial camera.
func WithCamera(center geo.Point, zoom float64) SimOption {
	return func(s *Sim) { s.center, s.zoom = center, zoom }
}

// WithStart places the walker. Defaults to the camera centre.
func WithStart(p geo.Point) SimOption {
	return func(s *Sim) { s.start, s.startSet = p, true }
}

// WithSeed sets the walker RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return func(s *Sim) { s.seed = seed }
}

// WithStep sets the walker's per-tick jitter span in degrees.
func WithStep(deg float64) SimOption {
	return func(s *Sim) { s.step = deg }
}

// WithFollow recentres the camera on the walker after every tick.
func WithFollow(f bool) SimOption {
	return func(s *Sim) { s.follow = f }
}

// WithVerbose keeps per-repaint entries in the event log.
func WithVerbose(v bool) SimOption {
	return func(s *Sim) { s.verbose = v }
}

// WithFog overrides renderer options.
func WithFog(o fog.Options) SimOption {
	return func(s *Sim) { s.fogOpts = o }
}

// WithSimLogger routes component logs to l. Defaults to discarding them.
func WithSimLogger(l *slog.Logger) SimOption {
	return func(s *Sim) { s.logger = l }
}

// NewSim builds a headless overlay. Defaults: 800x600 viewport, camera on
// (0,0) at zoom 13, seed 1.
func NewSim(opts ...SimOption) *Sim {
	s := &Sim{
		width:  800,
		height: 600,
		zoom:   13,
		seed:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.startSet {
		s.start = s.center
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.Log = NewEventLog(0, s.verbose)

	s.Map = mapview.New(s.center, s.zoom, s.width, s.height)
	s.Surface = fog.NewRaster(0, 0)
	fo := s.fogOpts
	if fo.Logger == nil {
		fo.Logger = s.logger
	}
	s.Renderer = fog.NewRenderer(s.Surface, s.Map, fo)
	s.Walker = feed.NewWalker(s.start, s.seed)
	if s.step > 0 {
		s.Walker.Step = s.step
	}
	s.Marker = &mapview.Marker{Label: "walker"}
	s.Overlay = New(s.Map, s.Renderer, s.start,
		WithLogger(s.logger),
		WithEventLog(s.Log),
		WithMarker(s.Marker),
	)
	return s
}

// Step advances the walker once, routing the position through the overlay
// queue exactly as a live feed would.
func (s *Sim) Step() fog.Frame {
	s.Tick++
	s.Overlay.Post(s.Walker.Next())
	s.Overlay.Pump()
	if s.follow {
		s.Map.SetCenter(s.Overlay.Entity().Position)
	}
	return s.Overlay.Frame()
}

// RunTicks advances n steps.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Coverage returns the fraction of surface pixels that are at least partly
// revealed (alpha below the fog alpha).
func (s *Sim) Coverage() float64 {
	img := s.Surface.Image()
	if img == nil {
		return 0
	}
	fogA := s.Renderer.FogColor().A
	revealed, total := 0, 0
	for i := 3; i < len(img.Pix); i += 4 {
		total++
		if img.Pix[i] < fogA {
			revealed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(revealed) / float64(total)
}
