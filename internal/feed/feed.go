// Package feed supplies tracked-entity positions. Every source implements
// Feed; the overlay does not care whether positions are simulated or real.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Garsondee/fogmap/internal/geo"
)

// ErrInvalidPosition is returned for payloads that do not decode to a valid
// coordinate.
var ErrInvalidPosition = errors.New("feed: invalid position")

// Feed produces positions at its own cadence. Run blocks until ctx is done
// (returning nil) or the source fails. emit may be called from any goroutine.
type Feed interface {
	Run(ctx context.Context, emit func(geo.Point)) error
}

// Func adapts a plain function to Feed.
type Func func(ctx context.Context, emit func(geo.Point)) error

func (f Func) Run(ctx context.Context, emit func(geo.Point)) error { return f(ctx, emit) }

// positionMessage is the wire shape shared by the NATS and WebSocket feeds.
type positionMessage struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// DecodePosition parses {"lat":..,"lon":..}. Both fields are required.
func DecodePosition(data []byte) (geo.Point, error) {
	var msg positionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return geo.Point{}, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	if msg.Lat == nil || msg.Lon == nil {
		return geo.Point{}, fmt.Errorf("%w: lat and lon are required", ErrInvalidPosition)
	}
	p := geo.Point{Lon: *msg.Lon, Lat: *msg.Lat}
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("%w: %s out of range", ErrInvalidPosition, p)
	}
	return p, nil
}

// EncodePosition is the inverse of DecodePosition.
func EncodePosition(p geo.Point) ([]byte, error) {
	return json.Marshal(positionMessage{Lat: &p.Lat, Lon: &p.Lon})
}
