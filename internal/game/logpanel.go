package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 14
)

// categoryColors tags each event-log category with an indicator colour.
var categoryColors = map[string]color.RGBA{
	"map":       {R: 70, G: 150, B: 210, A: 255},
	"feed":      {R: 230, G: 190, B: 60, A: 255},
	"fog":       {R: 200, G: 80, B: 80, A: 255},
	"entity":    {R: 210, G: 120, B: 200, A: 255},
	"ui":        {R: 90, G: 190, B: 110, A: 255},
	"lifecycle": {R: 160, G: 160, B: 160, A: 255},
}

// drawLogPanel renders the overlay event log on the right side of the screen,
// newest entry at the bottom.
func (g *Game) drawLogPanel(screen *ebiten.Image) {
	w, panelH := g.m.Size()
	panelX := w - logPanelWidth
	if panelX < 0 {
		return
	}
	px := float32(panelX)

	// Panel background.
	vector.FillRect(screen, px, 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 16, A: 200}, false)
	// Left separator line.
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 90, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, px, 0, logPanelWidth, 16, color.RGBA{R: 20, G: 28, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENT LOG", panelX+8, 0)
	vector.StrokeLine(screen, px, 16, px+logPanelWidth, 16, 1.0, color.RGBA{R: 50, G: 80, B: 100, A: 200}, false)

	entries := g.events.Entries()
	maxVisible := (panelH - 24) / logLineHeight
	if maxVisible <= 0 {
		return
	}
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const recent = 3 // how many latest entries to highlight

	y := 20
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 40, B: 50, A: 160}, false)
		}
		dot, ok := categoryColors[e.Category]
		if !ok {
			dot = categoryColors["lifecycle"]
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, dot, false)

		line := fmt.Sprintf("%4d %-9s %s", e.Tick, e.Key, e.Value)
		if maxChars := (logPanelWidth - 16) / 6; len(line) > maxChars {
			line = line[:maxChars]
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}
