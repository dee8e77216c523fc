package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/fogmap/internal/geo"
)

// toastTicks is how long the copy confirmation stays on screen (~2s at 60 TPS).
const toastTicks = 120

// Inspector holds the last copied coordinate and its on-screen confirmation.
type Inspector struct {
	last   geo.Point
	source string // "entity" or "cursor"
	msg    string
	err    error
	ticks  int
}

func (in *Inspector) step() {
	if in.ticks > 0 {
		in.ticks--
	}
}

// copyPoint puts p on the clipboard as "lat,lon" and shows a confirmation.
func (g *Game) copyPoint(source string, p geo.Point) {
	text := p.String()
	err := g.copyText(text)
	g.inspector = Inspector{last: p, source: source, err: err, ticks: toastTicks}
	if err != nil {
		g.inspector.msg = "clipboard unavailable: " + text
		g.log.Warn("copy to clipboard failed", "source", source, "err", err)
		g.events.Add(g.tick, "ui", "copy_failed", source+" "+text, 0)
		return
	}
	g.inspector.msg = "copied " + source + " " + text
	g.log.Debug("copied coordinate", "source", source, "pos", text)
	g.events.Add(g.tick, "ui", "copy", source+" "+text, 0)
}

// drawInspector renders the copy confirmation centred along the bottom edge.
func (g *Game) drawInspector(screen *ebiten.Image) {
	in := &g.inspector
	if in.ticks == 0 || in.msg == "" {
		return
	}
	w, h := g.m.Size()
	const charW = 6
	const padX = 8
	const padY = 4
	bw := float32(len(in.msg)*charW + padX*2)
	bh := float32(16 + padY*2)
	bx := float32(w)/2 - bw/2
	by := float32(h) - bh - 12

	border := color.RGBA{R: 70, G: 140, B: 90, A: 255}
	if in.err != nil {
		border = color.RGBA{R: 180, G: 70, B: 60, A: 255}
	}
	vector.FillRect(screen, bx, by, bw, bh, color.RGBA{R: 14, G: 16, B: 14, A: 230}, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1.0, border, false)
	ebitenutil.DebugPrintAt(screen, in.msg, int(bx)+padX, int(by)+padY)
}
