package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/fogmap/internal/geo"
)

const DefaultReconnectWait = 2 * time.Second

// WebSocket reads JSON position messages from a WebSocket endpoint and
// redials after a fixed wait whenever the connection drops.
type WebSocket struct {
	URL           string
	ReconnectWait time.Duration
	Dialer        *websocket.Dialer
	Logger        *slog.Logger
}

func (w *WebSocket) Run(ctx context.Context, emit func(geo.Point)) error {
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}
	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	wait := w.ReconnectWait
	if wait <= 0 {
		wait = DefaultReconnectWait
	}

	for {
		conn, _, err := dialer.DialContext(ctx, w.URL, nil)
		if err == nil {
			log.Info("position feed connected", "feed", "websocket", "url", w.URL)
			err = w.read(ctx, conn, emit, log)
		}
		if ctx.Err() != nil {
			return nil
		}
		log.Warn("position feed disconnected", "feed", "websocket", "url", w.URL, "err", err, "retry_in", wait)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// read consumes messages until the connection fails or ctx is cancelled.
func (w *WebSocket) read(ctx context.Context, conn *websocket.Conn, emit func(geo.Point), log *slog.Logger) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}
		p, err := DecodePosition(data)
		if err != nil {
			if errors.Is(err, ErrInvalidPosition) {
				log.Warn("dropping position", "feed", "websocket", "err", err)
				continue
			}
			return err
		}
		emit(p)
	}
}
