// Package overlay keeps the fog surface in step with the map camera and the
// tracked entity. All state changes run on the caller's event-handling
// goroutine; the position feed only ever touches a channel.
package overlay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Garsondee/fogmap/internal/feed"
	"github.com/Garsondee/fogmap/internal/fog"
	"github.com/Garsondee/fogmap/internal/geo"
	"github.com/Garsondee/fogmap/internal/mapview"
)

const defaultQueueSize = 16

// MapEngine is the part of the map the overlay depends on.
type MapEngine interface {
	fog.Projector
	Camera() geo.Camera
	Size() (w, h int)
	On(kind mapview.EventKind, fn func(mapview.Event)) (cancel func())
}

// Overlay wires map events and position updates to fog repaints.
type Overlay struct {
	engine   MapEngine
	renderer *fog.Renderer
	surface  fog.Surface
	marker   *mapview.Marker

	entity   fog.Entity
	last     fog.Frame
	tick     int
	repaints int
	paused   bool
	hidden   bool
	closed   bool
	cancels  []func()

	queue      chan geo.Point
	feedErr    chan error
	feedCancel context.CancelFunc
	feedDone   chan struct{}

	log    *slog.Logger
	events *EventLog
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Overlay) { o.log = l }
}

// WithEventLog records handled events into l.
func WithEventLog(l *EventLog) Option {
	return func(o *Overlay) { o.events = l }
}

// WithQueueSize bounds the number of pending feed positions.
func WithQueueSize(n int) Option {
	return func(o *Overlay) {
		if n > 0 {
			o.queue = make(chan geo.Point, n)
		}
	}
}

// WithMarker keeps mk positioned on the tracked entity.
func WithMarker(mk *mapview.Marker) Option {
	return func(o *Overlay) { o.marker = mk }
}

// New sizes the renderer's surface to the engine viewport, paints the first
// frame for start and subscribes to move, zoom and resize events.
func New(engine MapEngine, renderer *fog.Renderer, start geo.Point, opts ...Option) *Overlay {
	o := &Overlay{
		engine:   engine,
		renderer: renderer,
		surface:  renderer.Surface(),
		entity:   fog.Entity{Position: start.Clamped()},
		queue:    make(chan geo.Point, defaultQueueSize),
		feedErr:  make(chan error, 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	o.log = o.log.With("component", "overlay")
	if o.events == nil {
		o.events = NewEventLog(0, false)
	}
	if o.marker != nil {
		o.marker.Pos = o.entity.Position
	}

	w, h := engine.Size()
	o.resize(w, h)
	o.repaint("init")

	o.cancels = append(o.cancels,
		engine.On(mapview.EventResize, o.onResize),
		engine.On(mapview.EventMove, o.onCamera),
		engine.On(mapview.EventZoom, o.onCamera),
	)
	return o
}

func (o *Overlay) onResize(ev mapview.Event) {
	if o.closed {
		return
	}
	// The surface must match the new viewport before the next paint.
	o.resize(ev.Width, ev.Height)
	o.repaint(ev.Kind.String())
}

func (o *Overlay) onCamera(ev mapview.Event) {
	if o.closed {
		return
	}
	o.tick++
	switch ev.Kind {
	case mapview.EventZoom:
		o.events.Add(o.tick, "map", "zoom", fmt.Sprintf("%.2f", ev.Camera.Zoom), ev.Camera.Zoom)
	default:
		o.events.AddVerbose(o.tick, "map", ev.Kind.String(), ev.Camera.Center.String(), 0)
	}
	o.repaint(ev.Kind.String())
}

func (o *Overlay) resize(w, h int) {
	o.tick++
	if o.surface == nil {
		o.log.Debug("resize without a surface", "width", w, "height", h)
		return
	}
	o.surface.Resize(w, h)
	o.events.Add(o.tick, "map", "resize", fmt.Sprintf("%dx%d", w, h), float64(w*h))
	o.log.Debug("surface resized", "width", w, "height", h)
}

// repaint paints the current (camera, entity) pair. Hidden overlays just
// clear the surface. Without a surface the renderer reports ErrMissingSurface
// and nothing is drawn.
func (o *Overlay) repaint(cause string) {
	if o.hidden {
		if o.surface != nil {
			o.surface.Clear()
		}
		return
	}
	o.repaints++
	f := o.renderer.Repaint(o.engine.Camera(), o.entity)
	if f.Err != nil && f.Err != o.last.Err {
		o.events.Add(o.tick, "fog", "degraded", f.Err.Error(), f.PixelRadius)
		o.log.Debug("repaint degraded", "cause", cause, "err", f.Err)
	}
	o.events.AddVerbose(o.tick, "fog", "repaint", fmt.Sprintf("%s r=%.1fpx", cause, f.PixelRadius), f.PixelRadius)
	o.last = f
}

// Post queues a position from any goroutine. When the queue is full the
// oldest pending position is dropped; only the newest matters.
func (o *Overlay) Post(p geo.Point) {
	select {
	case o.queue <- p:
		return
	default:
	}
	select {
	case <-o.queue:
	default:
	}
	select {
	case o.queue <- p:
	default:
	}
}

// Pump drains queued positions and applies the newest valid one. It must be
// called from the event-handling goroutine. It reports whether it repainted.
func (o *Overlay) Pump() bool {
	if o.closed {
		return false
	}
	select {
	case err := <-o.feedErr:
		o.tick++
		o.events.Add(o.tick, "feed", "error", err.Error(), 0)
	default:
	}

	var (
		latest geo.Point
		have   bool
	)
drain:
	for {
		select {
		case p := <-o.queue:
			if !p.Valid() {
				o.log.Warn("ignoring invalid position", "pos", p.String())
				o.events.Add(o.tick, "entity", "invalid", p.String(), 0)
				continue
			}
			latest, have = p, true
		default:
			break drain
		}
	}
	if !have || o.paused {
		return false
	}
	o.SetEntity(latest)
	return true
}

// SetEntity moves the tracked entity and repaints.
func (o *Overlay) SetEntity(p geo.Point) {
	if o.closed {
		return
	}
	p = p.Clamped()
	o.tick++
	moved := geo.Haversine(o.entity.Position, p)
	o.entity.Position = p
	if o.marker != nil {
		o.marker.Pos = p
	}
	o.events.AddVerbose(o.tick, "feed", "position", p.String(), moved)
	o.repaint("position")
}

// Repaint forces a repaint of the current state.
func (o *Overlay) Repaint() {
	if o.closed {
		return
	}
	o.repaint("manual")
}

// Start runs f on its own goroutine, feeding Post, until ctx is done or Close
// is called. A previously started feed is stopped first.
func (o *Overlay) Start(ctx context.Context, f feed.Feed) {
	if o.closed || f == nil {
		return
	}
	o.stopFeed()
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	o.feedCancel, o.feedDone = cancel, done
	go func() {
		defer close(done)
		if err := f.Run(ctx, o.Post); err != nil {
			o.log.Error("position feed stopped", "err", err)
			select {
			case o.feedErr <- err:
			default:
			}
		}
	}()
	o.tick++
	o.events.Add(o.tick, "lifecycle", "feed_start", fmt.Sprintf("%T", f), 0)
}

func (o *Overlay) stopFeed() {
	if o.feedCancel == nil {
		return
	}
	o.feedCancel()
	<-o.feedDone
	o.feedCancel, o.feedDone = nil, nil
}

// Close stops the feed and drops all map subscriptions. Later events, posts
// and pumps are ignored.
func (o *Overlay) Close() {
	if o.closed {
		return
	}
	o.closed = true
	o.stopFeed()
	for _, cancel := range o.cancels {
		cancel()
	}
	o.cancels = nil
	o.tick++
	o.events.Add(o.tick, "lifecycle", "closed", "", 0)
	o.log.Info("overlay closed")
}

// SetPaused makes Pump discard feed positions while paused.
func (o *Overlay) SetPaused(p bool) { o.paused = p }

func (o *Overlay) Paused() bool { return o.paused }

// SetHidden toggles the fog layer off (transparent surface) and back on.
func (o *Overlay) SetHidden(h bool) {
	if o.hidden == h {
		return
	}
	o.hidden = h
	if !o.closed {
		o.repaint("visibility")
	}
}

func (o *Overlay) Hidden() bool { return o.hidden }

// Entity returns the tracked entity snapshot.
func (o *Overlay) Entity() fog.Entity { return o.entity }

// Frame returns the result of the last repaint.
func (o *Overlay) Frame() fog.Frame { return o.last }

// Repaints counts renderer passes since New, including degraded ones.
func (o *Overlay) Repaints() int { return o.repaints }

// Events returns the event log.
func (o *Overlay) Events() *EventLog { return o.events }

// Closed reports whether Close has been called.
func (o *Overlay) Closed() bool { return o.closed }
