package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Garsondee/fogmap/internal/geo"
)

const DefaultNATSSubject = "fogmap.position"

// NATS reads positions published as JSON on a core NATS subject.
type NATS struct {
	URL     string
	Subject string
	Logger  *slog.Logger
}

func (n *NATS) Run(ctx context.Context, emit func(geo.Point)) error {
	log := n.Logger
	if log == nil {
		log = slog.Default()
	}
	subject := n.Subject
	if subject == "" {
		subject = DefaultNATSSubject
	}

	conn, err := nats.Connect(n.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer func() { _ = conn.Drain() }()

	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		p, err := DecodePosition(msg.Data)
		if err != nil {
			log.Warn("dropping position", "feed", "nats", "subject", msg.Subject, "err", err)
			return
		}
		emit(p)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	log.Info("position feed subscribed", "feed", "nats", "url", n.URL, "subject", subject)
	<-ctx.Done()
	return nil
}
