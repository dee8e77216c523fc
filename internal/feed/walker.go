package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/Garsondee/fogmap/internal/geo"
)

const (
	DefaultWalkInterval = time.Second
	DefaultWalkStep     = 0.001 // degrees, full span of the per-axis jitter
)

// Walker is a simulated entity that jitters around at a fixed cadence.
// Each tick moves lon and lat by (rand-0.5)*Step independently.
type Walker struct {
	Interval time.Duration
	Step     float64

	pos geo.Point
	rng *rand.Rand
}

// NewWalker creates a walker at start. seed 0 picks a time-based seed.
func NewWalker(start geo.Point, seed int64) *Walker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Walker{
		Interval: DefaultWalkInterval,
		Step:     DefaultWalkStep,
		pos:      start.Clamped(),
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation only
	}
}

// Position returns the walker's current position.
func (w *Walker) Position() geo.Point { return w.pos }

// Next advances the walker one step and returns the new position. It is not
// safe to call concurrently with Run.
func (w *Walker) Next() geo.Point {
	step := w.Step
	if step <= 0 {
		step = DefaultWalkStep
	}
	next := geo.Point{
		Lon: w.pos.Lon + (w.rng.Float64()-0.5)*step,
		Lat: w.pos.Lat + (w.rng.Float64()-0.5)*step,
	}
	w.pos = next.Clamped()
	return w.pos
}

// Run emits a new position every Interval until ctx is done.
func (w *Walker) Run(ctx context.Context, emit func(geo.Point)) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultWalkInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			emit(w.Next())
		}
	}
}
