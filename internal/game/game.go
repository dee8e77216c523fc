// Package game hosts the fog overlay in an ebiten window: it owns the map
// view, the GPU fog surface and the input handling, and forwards everything
// else to the overlay package.
package game

import (
	"bytes"
	"context"
	"image/color"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/fogmap/internal/feed"
	"github.com/Garsondee/fogmap/internal/fog"
	"github.com/Garsondee/fogmap/internal/geo"
	"github.com/Garsondee/fogmap/internal/mapview"
	"github.com/Garsondee/fogmap/internal/overlay"
)

// hudFontSize is the HUD text size in pixels.
const hudFontSize = 13

// Options configures a Game.
type Options struct {
	Center  geo.Point
	Zoom    float64
	MinZoom float64
	MaxZoom float64
	Width   int
	Height  int
	Fog     fog.Options
	Feed    feed.Feed // nil runs without a live feed
	Logger  *slog.Logger
}

type Game struct {
	opts Options
	ctx  context.Context
	log  *slog.Logger

	m        *mapview.Map
	marker   *mapview.Marker
	events   *overlay.EventLog
	surface  fog.Surface
	gpu      *ebitenSurface // nil when running on an injected surface
	renderer *fog.Renderer
	overlay  *overlay.Overlay
	started  bool

	layoutW int
	layoutH int
	tick    int

	showHUD       bool
	showLog       bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
	inspector     Inspector

	face     *text.GoTextFace
	copyText func(string) error
}

// New creates the host. The overlay and the position feed start on the first
// Update so that all surface work happens inside the game loop.
func New(ctx context.Context, opts Options) *Game {
	return newGame(ctx, opts, nil)
}

func newGame(ctx context.Context, opts Options, surface fog.Surface) *Game {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	g := &Game{
		opts:     opts,
		ctx:      ctx,
		log:      opts.Logger.With("component", "game"),
		marker:   &mapview.Marker{Label: "entity"},
		events:   overlay.NewEventLog(logMaxEntries, false),
		surface:  surface,
		layoutW:  opts.Width,
		layoutH:  opts.Height,
		showHUD:  true,
		showLog:  true,
		prevKeys: make(map[ebiten.Key]bool),
		copyText: clipboard.WriteAll,
	}
	g.m = mapview.New(opts.Center, opts.Zoom, opts.Width, opts.Height)
	if opts.MaxZoom > 0 {
		g.m.SetZoomLimits(opts.MinZoom, opts.MaxZoom)
	}
	if src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF)); err != nil {
		g.log.Warn("hud font unavailable, using debug font", "err", err)
	} else {
		g.face = &text.GoTextFace{Source: src, Size: hudFontSize}
	}
	return g
}

// start wires the renderer and overlay and launches the feed. Idempotent.
func (g *Game) start() {
	if g.started {
		return
	}
	g.started = true
	if g.surface == nil {
		g.gpu = newEbitenSurface()
		g.surface = g.gpu
	}
	fo := g.opts.Fog
	if fo.Logger == nil {
		fo.Logger = g.opts.Logger
	}
	g.renderer = fog.NewRenderer(g.surface, g.m, fo)
	g.overlay = overlay.New(g.m, g.renderer, g.opts.Center,
		overlay.WithLogger(g.opts.Logger),
		overlay.WithEventLog(g.events),
		overlay.WithMarker(g.marker),
	)
	if g.opts.Feed != nil {
		g.overlay.Start(g.ctx, g.opts.Feed)
	}
	g.log.Info("overlay started",
		"center", g.opts.Center.String(),
		"zoom", g.m.Zoom(),
		"radius_m", g.renderer.RadiusMeters(),
	)
}

// Close stops the feed and detaches the overlay from the map.
func (g *Game) Close() {
	if g.overlay != nil {
		g.overlay.Close()
	}
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.start()
	g.step(pollInput())
	return nil
}

// step runs one frame: window size, input, then queued feed positions.
func (g *Game) step(in inputState) {
	// Apply the window size first so any repaint below targets the new surface.
	g.m.Resize(g.layoutW, g.layoutH)
	g.applyInput(in)
	g.overlay.Pump()
	g.tick++
	g.inspector.step()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 24, B: 30, A: 255})
	if g.overlay == nil {
		return
	}
	g.drawGraticule(screen)

	if g.gpu != nil && g.gpu.Image() != nil && !g.overlay.Hidden() {
		screen.DrawImage(g.gpu.Image(), nil)
	}

	g.drawMarker(screen)
	if g.showLog {
		g.drawLogPanel(screen)
	}
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
}

// Layout follows the window size. The map is resized on the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.layoutW, g.layoutH = outsideWidth, outsideHeight
	}
	return g.layoutW, g.layoutH
}

// Map exposes the map view.
func (g *Game) Map() *mapview.Map { return g.m }

// Overlay exposes the overlay; nil before the first Update.
func (g *Game) Overlay() *overlay.Overlay { return g.overlay }
