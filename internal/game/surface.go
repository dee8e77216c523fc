package game

import (
	"image/color"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/fogmap/internal/fog"
	"github.com/Garsondee/fogmap/internal/geo"
)

// stampSize is the edge of the baked radial gradient. It is scaled to the
// hole radius on every draw, so it only bounds the smoothness of the rim.
const stampSize = 256

// ebitenSurface is the GPU-backed fog surface. Fills are drawn through a 1x1
// white image and the radial hole through a baked gradient stamp, both with
// the blend matching the current composite mode.
type ebitenSurface struct {
	img   *ebiten.Image
	mode  fog.CompositeMode
	white *ebiten.Image

	stamp        *ebiten.Image
	stampProfile []float64
	stampColor   color.RGBA
}

var _ fog.Surface = (*ebitenSurface)(nil)

func newEbitenSurface() *ebitenSurface {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &ebitenSurface{white: white}
}

func (s *ebitenSurface) Size() (int, int) {
	if s == nil || s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image. Previous content is always dropped.
func (s *ebitenSurface) Resize(w, h int) {
	if cw, ch := s.Size(); cw == w && ch == h && s.img != nil {
		s.img.Clear()
		return
	}
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	if w <= 0 || h <= 0 {
		return
	}
	s.img = ebiten.NewImage(w, h)
}

func (s *ebitenSurface) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

func (s *ebitenSurface) SetComposite(mode fog.CompositeMode) { s.mode = mode }

func (s *ebitenSurface) FillRect(c color.Color) {
	if s.img == nil {
		return
	}
	w, h := s.Size()
	op := &ebiten.DrawImageOptions{Blend: blendFor(s.mode)}
	op.GeoM.Scale(float64(w), float64(h))
	op.ColorScale.ScaleWithColor(c)
	s.img.DrawImage(s.white, op)
}

func (s *ebitenSurface) FillRadial(center geo.ScreenPoint, radius float64, c color.Color, alpha fog.AlphaFunc) {
	if s.img == nil || radius <= 0 || alpha == nil {
		return
	}
	s.ensureStamp(c, alpha)

	half := float64(stampSize) / 2
	k := radius / half
	op := &ebiten.DrawImageOptions{Blend: blendFor(s.mode), Filter: ebiten.FilterLinear}
	op.GeoM.Translate(-half, -half)
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(center.X, center.Y)
	s.img.DrawImage(s.stamp, op)
}

// Image returns the backing image, nil while unsized.
func (s *ebitenSurface) Image() *ebiten.Image { return s.img }

// ensureStamp rebakes the gradient only when the falloff profile or colour
// changed since the last bake.
func (s *ebitenSurface) ensureStamp(c color.Color, alpha fog.AlphaFunc) {
	profile := sampleProfile(alpha, stampSize/2)
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	if s.stamp != nil && rgba == s.stampColor && slices.Equal(profile, s.stampProfile) {
		return
	}
	if s.stamp == nil {
		s.stamp = ebiten.NewImage(stampSize, stampSize)
	}
	s.stamp.WritePixels(bakeStamp(stampSize, rgba, alpha))
	s.stampProfile = profile
	s.stampColor = rgba
}

func blendFor(mode fog.CompositeMode) ebiten.Blend {
	if mode == fog.CompositeErase {
		return ebiten.BlendDestinationOut
	}
	return ebiten.BlendSourceOver
}

// bakeStamp renders a size x size premultiplied RGBA gradient: c scaled by
// alpha(t), t being the distance of each pixel centre from the middle over
// half the edge.
func bakeStamp(size int, c color.RGBA, alpha fog.AlphaFunc) []byte {
	pix := make([]byte, size*size*4)
	half := float64(size) / 2
	ca := float64(c.A) / 255
	for y := 0; y < size; y++ {
		dy := float64(y) + 0.5 - half
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - half
			t := math.Hypot(dx, dy) / half
			a := clamp01(alpha(t)) * ca
			if a == 0 {
				continue
			}
			i := (y*size + x) * 4
			// c is already premultiplied by its own alpha.
			k := a / ca
			pix[i+0] = uint8(float64(c.R)*k + 0.5)
			pix[i+1] = uint8(float64(c.G)*k + 0.5)
			pix[i+2] = uint8(float64(c.B)*k + 0.5)
			pix[i+3] = uint8(a*255 + 0.5)
		}
	}
	return pix
}

func sampleProfile(alpha fog.AlphaFunc, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = alpha((float64(i) + 0.5) / float64(n))
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v != v || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
