package fog

import (
	"errors"
	"image/color"
	"log/slog"

	"github.com/Garsondee/fogmap/internal/geo"
)

var (
	// ErrMissingSurface means Repaint ran before the surface was sized.
	ErrMissingSurface = errors.New("fog: surface not allocated")
	// ErrDegenerateProjection means the entity projected to a non-finite
	// screen point; the frame is left fully fogged.
	ErrDegenerateProjection = errors.New("fog: non-finite projection")
	// ErrInvalidRadius means the pixel radius had to be clamped from a
	// non-finite or negative value.
	ErrInvalidRadius = errors.New("fog: invalid pixel radius")
)

const (
	DefaultRadiusMeters = 2000.0
	DefaultFogAlpha     = 0.9
)

// Projector converts geographic coordinates into surface pixels using the map
// engine's current camera.
type Projector interface {
	Project(p geo.Point) geo.ScreenPoint
}

// ProjectorFunc adapts a plain function to Projector.
type ProjectorFunc func(p geo.Point) geo.ScreenPoint

func (f ProjectorFunc) Project(p geo.Point) geo.ScreenPoint { return f(p) }

// Entity is the tracked thing the hole follows.
type Entity struct {
	Position geo.Point
}

// Frame describes the outcome of one Repaint.
type Frame struct {
	Center         geo.ScreenPoint
	MetersPerPixel float64
	PixelRadius    float64
	Revealed       bool  // hole was punched
	Err            error // nil, or one of the sentinel errors above
}

// Options tunes a Renderer. Zero fields take defaults.
type Options struct {
	FogColor     color.Color
	FogAlpha     float64
	RadiusMeters float64
	InnerRatio   float64
	Falloff      Falloff
	Logger       *slog.Logger
}

// Renderer paints the fog layer and punches the visibility hole.
type Renderer struct {
	surface   Surface
	projector Projector

	fog        color.NRGBA
	radius     float64
	inner      float64
	falloff    Falloff
	log        *slog.Logger
	eraseColor color.Color
}

// NewRenderer creates a renderer painting into surface. The surface may be
// unsized; repaints no-op until it is resized.
func NewRenderer(surface Surface, projector Projector, opts Options) *Renderer {
	fc := opts.FogColor
	if fc == nil {
		fc = color.Black
	}
	alpha := opts.FogAlpha
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultFogAlpha
	}
	radius := opts.RadiusMeters
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	inner := opts.InnerRatio
	if inner <= 0 || inner >= 1 {
		inner = DefaultInnerRatio
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	n := color.NRGBAModel.Convert(fc).(color.NRGBA)
	n.A = uint8(alpha*255 + 0.5)
	return &Renderer{
		surface:    surface,
		projector:  projector,
		fog:        n,
		radius:     radius,
		inner:      inner,
		falloff:    opts.Falloff,
		log:        logger.With("component", "fog"),
		eraseColor: color.Black,
	}
}

// Surface returns the surface the renderer paints into.
func (r *Renderer) Surface() Surface { return r.surface }

// RadiusMeters returns the configured visibility radius.
func (r *Renderer) RadiusMeters() float64 { return r.radius }

// FogColor returns the fill colour including its alpha.
func (r *Renderer) FogColor() color.NRGBA { return r.fog }

// Repaint redraws the whole surface for the given camera and entity snapshot.
// It never fails loudly: every anomaly leaves the surface fully fogged (or
// untouched when there is no surface) and is reported on the returned Frame.
func (r *Renderer) Repaint(cam geo.Camera, entity Entity) Frame {
	if !hasBacking(r.surface) {
		r.log.Debug("repaint skipped", "reason", ErrMissingSurface)
		return Frame{Err: ErrMissingSurface}
	}

	s := r.surface
	s.SetComposite(CompositeSourceOver)
	s.Clear()
	s.FillRect(r.fog)

	var f Frame
	f.MetersPerPixel = geo.MetersPerPixel(entity.Position.Lat, cam.Zoom)
	radius, ok := geo.PixelRadius(r.radius, entity.Position.Lat, cam.Zoom)
	f.PixelRadius = radius
	if !ok {
		f.Err = ErrInvalidRadius
		r.log.Warn("pixel radius clamped", "zoom", cam.Zoom, "lat", entity.Position.Lat, "radius_px", radius)
	}

	if r.projector == nil {
		f.Err = ErrDegenerateProjection
		return f
	}
	f.Center = r.projector.Project(entity.Position)
	if !f.Center.Finite() {
		f.Err = ErrDegenerateProjection
		r.log.Debug("hole skipped", "reason", ErrDegenerateProjection, "entity", entity.Position.String())
		return f
	}

	r.punch(f.Center, radius)
	f.Revealed = true
	return f
}

func (r *Renderer) punch(center geo.ScreenPoint, radius float64) {
	s := r.surface
	s.SetComposite(CompositeErase)
	defer s.SetComposite(CompositeSourceOver)
	s.FillRadial(center, radius, r.eraseColor, r.falloff.AlphaFunc(r.inner))
}
