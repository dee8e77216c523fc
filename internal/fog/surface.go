package fog

import (
	"image/color"

	"github.com/Garsondee/fogmap/internal/geo"
)

// CompositeMode selects how drawn pixels combine with the surface.
type CompositeMode int

const (
	// CompositeSourceOver is ordinary alpha blending.
	CompositeSourceOver CompositeMode = iota
	// CompositeErase removes destination alpha in proportion to source alpha
	// (destination-out: dst *= 1 - srcA).
	CompositeErase
)

func (m CompositeMode) String() string {
	switch m {
	case CompositeErase:
		return "erase"
	default:
		return "source-over"
	}
}

// AlphaFunc maps a normalised distance t = d/radius in [0, 1] to an alpha.
type AlphaFunc func(t float64) float64

// Surface is a pixel-addressable drawing target sized to the viewport.
//
// FillRadial paints a disk whose per-pixel alpha is c's alpha scaled by
// alpha(d/radius). Pixels at or beyond the radius are left untouched.
//
// Resize must be called before the first paint and on every viewport resize;
// it discards prior content. A surface that has never been sized (or was
// resized to zero) reports a zero Size and is treated as missing.
type Surface interface {
	Size() (w, h int)
	Resize(w, h int)
	Clear()
	SetComposite(mode CompositeMode)
	FillRect(c color.Color)
	FillRadial(center geo.ScreenPoint, radius float64, c color.Color, alpha AlphaFunc)
}

func hasBacking(s Surface) bool {
	if s == nil {
		return false
	}
	w, h := s.Size()
	return w > 0 && h > 0
}
