package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/fogmap/internal/geo"
)

const (
	minGridSpacing = 80.0 // screen pixels between graticule lines, at least
	maxGridLines   = 256
	markerRadius   = 6
)

// graticuleSteps are the candidate line spacings in degrees, coarse to fine.
var graticuleSteps = []float64{
	30, 10, 5, 2, 1, 0.5, 0.2, 0.1, 0.05, 0.02, 0.01,
	0.005, 0.002, 0.001, 0.0005, 0.0002, 0.0001,
}

// graticuleStep picks the finest step that keeps lines at least
// minGridSpacing pixels apart at the equator scale of zoom.
func graticuleStep(zoom float64) float64 {
	pxPerDeg := geo.WorldSize(zoom) / 360
	best := graticuleSteps[0]
	for _, s := range graticuleSteps {
		if s*pxPerDeg < minGridSpacing {
			break
		}
		best = s
	}
	return best
}

// drawGraticule draws lon/lat lines under the fog so panning and zooming are
// visible without a tile source.
func (g *Game) drawGraticule(screen *ebiten.Image) {
	w, h := g.m.Size()
	nw := g.m.Unproject(geo.ScreenPoint{})
	se := g.m.Unproject(geo.ScreenPoint{X: float64(w), Y: float64(h)})
	step := graticuleStep(g.m.Zoom())
	lineCol := color.RGBA{R: 40, G: 56, B: 70, A: 255}
	majorCol := color.RGBA{R: 60, G: 84, B: 104, A: 255}

	lon0 := math.Floor(nw.Lon/step) * step
	for i := 0; i < maxGridLines; i++ {
		lon := lon0 + float64(i)*step
		if lon > se.Lon {
			break
		}
		x := float32(g.m.Project(geo.Point{Lon: lon, Lat: g.m.Center().Lat}).X)
		vector.StrokeLine(screen, x, 0, x, float32(h), 1.0, gridColor(lon, step, lineCol, majorCol), false)
	}
	lat0 := math.Floor(se.Lat/step) * step
	for i := 0; i < maxGridLines; i++ {
		lat := lat0 + float64(i)*step
		if lat > nw.Lat {
			break
		}
		y := float32(g.m.Project(geo.Point{Lon: g.m.Center().Lon, Lat: lat}).Y)
		vector.StrokeLine(screen, 0, y, float32(w), y, 1.0, gridColor(lat, step, lineCol, majorCol), false)
	}
}

// gridColor highlights every fifth line.
func gridColor(v, step float64, minor, major color.RGBA) color.RGBA {
	if n := math.Round(v / step); math.Mod(n, 5) == 0 {
		return major
	}
	return minor
}

// drawMarker draws the entity marker with a coordinate pill below it. The
// marker is placed by the map projection, never by the fog surface.
func (g *Game) drawMarker(screen *ebiten.Image) {
	if !g.m.Visible(g.marker, 64) {
		return
	}
	p := g.m.ScreenPos(g.marker)
	mx, my := float32(p.X), float32(p.Y)

	vector.FillCircle(screen, mx, my, markerRadius+2, color.RGBA{R: 10, G: 10, B: 10, A: 200}, true)
	fill := color.RGBA{R: 255, G: 196, B: 40, A: 255}
	if g.overlay.Paused() {
		fill = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
	vector.FillCircle(screen, mx, my, markerRadius, fill, true)

	label := markerLabel(g.marker.Label, g.marker.Pos)
	textX := int(mx) - len(label)*3
	textY := int(my) + markerRadius + 6

	// Background pill.
	const charW = 6
	const padX = 4
	const padY = 2
	bgW := float32(len(label)*charW + padX*2)
	bgH := float32(14 + padY*2)
	vector.FillRect(screen, float32(textX-padX), float32(textY-padY), bgW, bgH,
		color.RGBA{R: 20, G: 20, B: 28, A: 170}, false)
	ebitenutil.DebugPrintAt(screen, label, textX, textY)
}

func markerLabel(name string, p geo.Point) string {
	if name == "" {
		return p.String()
	}
	return name + " " + p.String()
}

// hudLines describes the camera, entity and fog state plus the key legend.
func (g *Game) hudLines() []string {
	cam := g.m.Camera()
	f := g.overlay.Frame()
	feedState := "live"
	if g.overlay.Paused() {
		feedState = "PAUSED"
	}
	fogState := "on"
	if g.overlay.Hidden() {
		fogState = "off"
	}
	lines := []string{
		fmt.Sprintf("zoom %.2f  center %s", cam.Zoom, cam.Center),
		fmt.Sprintf("entity %s", g.overlay.Entity().Position),
		fmt.Sprintf("radius %.0fm = %.1fpx  (%.2f m/px)", g.renderer.RadiusMeters(), f.PixelRadius, f.MetersPerPixel),
		fmt.Sprintf("feed: %s  fog: %s", feedState, fogState),
	}
	if f.Err != nil {
		lines = append(lines, "fog degraded: "+f.Err.Error())
	}
	lines = append(lines,
		"[P] pause  [C] copy  [F] fog  [R] recenter",
		"[H] hud  [L] log  WASD pan  wheel/=/- zoom",
		"click = copy coordinate",
	)
	return lines
}

// drawHUD renders the status panel in the bottom-left corner.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()
	const padX = 6
	const padY = 5

	lineH, boxW := 16.0, 0.0
	if g.face != nil {
		lineH = hudFontSize * 1.3
		for _, l := range lines {
			if w, _ := text.Measure(l, g.face, lineH); w > boxW {
				boxW = w
			}
		}
	} else {
		for _, l := range lines {
			boxW = math.Max(boxW, float64(len(l)*6))
		}
	}
	boxW += padX * 2
	boxH := float64(len(lines))*lineH + padY*2

	_, h := g.m.Size()
	bx := float32(8)
	by := float32(float64(h) - boxH - 8)

	vector.FillRect(screen, bx, by, float32(boxW), float32(boxH), color.RGBA{R: 6, G: 10, B: 14, A: 210}, false)
	vector.StrokeRect(screen, bx, by, float32(boxW), float32(boxH), 1.0, color.RGBA{R: 60, G: 90, B: 120, A: 180}, false)
	// Inner highlight line along top edge.
	vector.StrokeLine(screen, bx+1, by+1, bx+float32(boxW)-1, by+1, 1.0, color.RGBA{R: 80, G: 120, B: 160, A: 80}, false)

	if g.face == nil {
		for i, line := range lines {
			ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*int(lineH))
		}
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(bx)+padX, float64(by)+padY)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 220, G: 230, B: 240, A: 255})
	op.LineSpacing = lineH
	text.Draw(screen, strings.Join(lines, "\n"), g.face, op)
}
