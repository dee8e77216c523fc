package feed

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"

	"github.com/Garsondee/fogmap/internal/geo"
)

// lockedBuffer lets the subscriber goroutine log while the test reads.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNATS_ReadsPositionsAndDropsGarbage(t *testing.T) {
	opts := natstest.DefaultTestOptions
	opts.Port = -1
	srv := natstest.RunServer(&opts)
	defer srv.Shutdown()

	var logs lockedBuffer
	f := &NATS{
		URL:     srv.ClientURL(),
		Subject: "fleet.position",
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	}
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan geo.Point, 4)
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx, func(p geo.Point) { got <- p }) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.NumSubscriptions() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("feed never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	pub, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connect publisher: %v", err)
	}
	defer pub.Close()
	for _, msg := range []string{
		`{"lat":1,"lon":2}`,
		`garbage`,
		`{"lat":95,"lon":0}`,
		`{"lat":3,"lon":4}`,
	} {
		if err := pub.Publish("fleet.position", []byte(msg)); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if err := pub.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	want := []geo.Point{{Lon: 2, Lat: 1}, {Lon: 4, Lat: 3}}
	for i, w := range want {
		select {
		case p := <-got:
			if p != w {
				t.Fatalf("message %d: got %v, want %v", i, p, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
	select {
	case p := <-got:
		t.Fatalf("invalid payloads should be dropped, got %v", p)
	default:
	}
	if n := strings.Count(logs.String(), "dropping position"); n != 2 {
		t.Fatalf("expected 2 dropped payloads to be logged, got %d:\n%s", n, logs.String())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run should return nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
