package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/fogmap/internal/config"
	"github.com/Garsondee/fogmap/internal/feed"
	"github.com/Garsondee/fogmap/internal/game"
	"github.com/Garsondee/fogmap/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "config file (default: fogmap.yaml in . or ./configs)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	src, err := buildFeed(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fo := cfg.FogOptions()
	fo.Logger = logger
	g := game.New(ctx, game.Options{
		Center:  cfg.Map.Center(),
		Zoom:    cfg.Map.Zoom,
		MinZoom: cfg.Map.MinZoom,
		MaxZoom: cfg.Map.MaxZoom,
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Fog:     fo,
		Feed:    src,
		Logger:  logger,
	})

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	logger.Info("starting", "feed", cfg.Feed.Kind, "center", cfg.Map.Center().String(), "zoom", cfg.Map.Zoom)

	err = ebiten.RunGame(g)
	g.Close()
	if err != nil {
		log.Fatal(err)
	}
}

// buildFeed picks the position source named by feed.kind.
func buildFeed(cfg *config.Config, logger *slog.Logger) (feed.Feed, error) {
	switch cfg.Feed.Kind {
	case config.FeedWalker:
		w := feed.NewWalker(cfg.Map.Center(), cfg.Feed.Walker.Seed)
		w.Interval = cfg.Feed.Walker.Interval
		w.Step = cfg.Feed.Walker.Step
		return w, nil
	case config.FeedNATS:
		return &feed.NATS{
			URL:     cfg.Feed.NATS.URL,
			Subject: cfg.Feed.NATS.Subject,
			Logger:  logger,
		}, nil
	case config.FeedWebSocket:
		return &feed.WebSocket{
			URL:           cfg.Feed.WebSocket.URL,
			ReconnectWait: cfg.Feed.WebSocket.ReconnectWait,
			Logger:        logger,
		}, nil
	}
	return nil, fmt.Errorf("unknown feed kind %q", cfg.Feed.Kind)
}
