package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/fogmap/internal/geo"
)

const (
	panSpeed      = 8.0  // screen pixels per frame while a pan key is held
	wheelZoomStep = 0.25 // zoom levels per wheel notch
	keyZoomStep   = 0.5  // zoom levels per =/- press
)

// trackedKeys are polled every frame. Edge-triggered actions compare against
// the previous frame's state.
var trackedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyArrowUp, ebiten.KeyArrowLeft, ebiten.KeyArrowDown, ebiten.KeyArrowRight,
	ebiten.KeyEqual, ebiten.KeyMinus,
	ebiten.KeyP, ebiten.KeyC, ebiten.KeyF, ebiten.KeyR, ebiten.KeyH, ebiten.KeyL,
}

// inputState is one frame of polled input.
type inputState struct {
	keys      map[ebiten.Key]bool
	wheelY    float64
	mouseLeft bool
	cursorX   int
	cursorY   int
}

func pollInput() inputState {
	in := inputState{keys: make(map[ebiten.Key]bool, len(trackedKeys))}
	for _, k := range trackedKeys {
		in.keys[k] = ebiten.IsKeyPressed(k)
	}
	_, in.wheelY = ebiten.Wheel()
	in.mouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.cursorX, in.cursorY = ebiten.CursorPosition()
	return in
}

// applyInput maps one frame of input onto the map view and the overlay.
func (g *Game) applyInput(in inputState) {
	pressed := func(k ebiten.Key) bool { return in.keys[k] && !g.prevKeys[k] }

	// Camera pan: WASD or arrow keys.
	var dx, dy float64
	if in.keys[ebiten.KeyW] || in.keys[ebiten.KeyArrowUp] {
		dy -= panSpeed
	}
	if in.keys[ebiten.KeyS] || in.keys[ebiten.KeyArrowDown] {
		dy += panSpeed
	}
	if in.keys[ebiten.KeyA] || in.keys[ebiten.KeyArrowLeft] {
		dx -= panSpeed
	}
	if in.keys[ebiten.KeyD] || in.keys[ebiten.KeyArrowRight] {
		dx += panSpeed
	}
	g.m.PanBy(dx, dy)

	// Camera zoom: mouse wheel or =/- keys. The map clamps to its limits.
	if in.wheelY != 0 {
		g.m.ZoomBy(in.wheelY * wheelZoomStep)
	}
	if pressed(ebiten.KeyEqual) {
		g.m.ZoomBy(keyZoomStep)
	}
	if pressed(ebiten.KeyMinus) {
		g.m.ZoomBy(-keyZoomStep)
	}

	// P: pause/resume the position feed.
	if pressed(ebiten.KeyP) {
		g.overlay.SetPaused(!g.overlay.Paused())
		g.log.Info("feed paused", "paused", g.overlay.Paused())
	}
	// C: copy the entity position.
	if pressed(ebiten.KeyC) {
		g.copyPoint("entity", g.overlay.Entity().Position)
	}
	// F: toggle the fog layer.
	if pressed(ebiten.KeyF) {
		g.overlay.SetHidden(!g.overlay.Hidden())
	}
	// R: recenter on the entity.
	if pressed(ebiten.KeyR) {
		g.m.SetCenter(g.overlay.Entity().Position)
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if pressed(ebiten.KeyL) {
		g.showLog = !g.showLog
	}

	// Left click copies the coordinate under the cursor.
	if in.mouseLeft && !g.prevMouseLeft {
		g.handleInspectorClick(in.cursorX, in.cursorY)
	}
	g.prevMouseLeft = in.mouseLeft

	g.prevKeys = in.keys
}

func (g *Game) handleInspectorClick(mx, my int) geo.Point {
	p := g.m.Unproject(geo.ScreenPoint{X: float64(mx), Y: float64(my)})
	g.copyPoint("cursor", p)
	return p
}
