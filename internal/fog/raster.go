package fog

import (
	"image"
	"image/color"
	"math"

	"github.com/Garsondee/fogmap/internal/geo"
)

// Raster is a CPU Surface backed by a premultiplied RGBA image. It is used by
// the headless report and by tests; it needs no graphics context.
type Raster struct {
	img  *image.RGBA
	mode CompositeMode
}

// NewRaster returns a raster of the given size. Non-positive sizes yield a
// surface with no backing store.
func NewRaster(w, h int) *Raster {
	r := &Raster{}
	r.Resize(w, h)
	return r
}

func (r *Raster) Size() (int, int) {
	if r == nil || r.img == nil {
		return 0, 0
	}
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image. Content is always discarded, even if
// the size is unchanged.
func (r *Raster) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		r.img = nil
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (r *Raster) Clear() {
	if r.img == nil {
		return
	}
	clear(r.img.Pix)
}

func (r *Raster) SetComposite(mode CompositeMode) {
	r.mode = mode
}

// Composite returns the active composite mode.
func (r *Raster) Composite() CompositeMode {
	return r.mode
}

func (r *Raster) FillRect(c color.Color) {
	if r.img == nil {
		return
	}
	src := premul(c, 1)
	pix := r.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		r.blend(pix[i:i+4:i+4], src)
	}
}

func (r *Raster) FillRadial(center geo.ScreenPoint, radius float64, c color.Color, alpha AlphaFunc) {
	if r.img == nil || !center.Finite() || !(radius > 0) || math.IsInf(radius, 0) {
		return
	}
	b := r.img.Bounds()
	x0 := clampInt(int(math.Floor(center.X-radius)), b.Min.X, b.Max.X)
	x1 := clampInt(int(math.Ceil(center.X+radius)), b.Min.X, b.Max.X)
	y0 := clampInt(int(math.Floor(center.Y-radius)), b.Min.Y, b.Max.Y)
	y1 := clampInt(int(math.Ceil(center.Y+radius)), b.Min.Y, b.Max.Y)

	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - center.Y
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - center.X
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= radius {
				continue
			}
			a := alpha(d / radius)
			if a <= 0 {
				continue
			}
			i := r.img.PixOffset(x, y)
			r.blend(r.img.Pix[i:i+4:i+4], premul(c, a))
		}
	}
}

// At returns the premultiplied pixel at (x, y); zero outside the surface.
func (r *Raster) At(x, y int) color.RGBA {
	if r.img == nil {
		return color.RGBA{}
	}
	return r.img.RGBAAt(x, y)
}

// Image exposes the backing image, nil when the surface is missing.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// blend applies src (premultiplied, 0..1) to one RGBA pixel under the
// current composite mode.
func (r *Raster) blend(px []uint8, src [4]float64) {
	inv := 1 - src[3]
	switch r.mode {
	case CompositeErase:
		for k := 0; k < 4; k++ {
			px[k] = to8(float64(px[k]) / 255 * inv)
		}
	default:
		for k := 0; k < 4; k++ {
			px[k] = to8(src[k] + float64(px[k])/255*inv)
		}
	}
}

// premul converts c to premultiplied float channels with its alpha scaled by k.
func premul(c color.Color, k float64) [4]float64 {
	cr, cg, cb, ca := c.RGBA()
	const m = 0xffff
	return [4]float64{
		float64(cr) / m * k,
		float64(cg) / m * k,
		float64(cb) / m * k,
		float64(ca) / m * k,
	}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
