package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/fogmap/internal/fog"
	"github.com/Garsondee/fogmap/internal/geo"
	"github.com/Garsondee/fogmap/internal/mapview"
)

// Feed kinds.
const (
	FeedWalker    = "walker"
	FeedNATS      = "nats"
	FeedWebSocket = "websocket"
)

// Config holds all application configuration.
type Config struct {
	Fog    FogConfig    `mapstructure:"fog"`
	Map    MapConfig    `mapstructure:"map"`
	Feed   FeedConfig   `mapstructure:"feed"`
	Window WindowConfig `mapstructure:"window"`
	Log    LogConfig    `mapstructure:"log"`
}

type FogConfig struct {
	RadiusMeters float64 `mapstructure:"radius_meters"`
	Alpha        float64 `mapstructure:"alpha"`
	Color        string  `mapstructure:"color"`
	Falloff      string  `mapstructure:"falloff"`
	InnerRatio   float64 `mapstructure:"inner_ratio"`
}

type MapConfig struct {
	Lat     float64 `mapstructure:"lat"`
	Lon     float64 `mapstructure:"lon"`
	Zoom    float64 `mapstructure:"zoom"`
	MinZoom float64 `mapstructure:"min_zoom"`
	MaxZoom float64 `mapstructure:"max_zoom"`
}

// Center returns the configured start position.
func (m MapConfig) Center() geo.Point {
	return geo.Point{Lon: m.Lon, Lat: m.Lat}
}

type FeedConfig struct {
	Kind      string          `mapstructure:"kind"`
	Walker    WalkerConfig    `mapstructure:"walker"`
	NATS      NATSConfig      `mapstructure:"nats"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

type WalkerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Step     float64       `mapstructure:"step"`
	Seed     int64         `mapstructure:"seed"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type WebSocketConfig struct {
	URL           string        `mapstructure:"url"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fog.radius_meters", fog.DefaultRadiusMeters)
	v.SetDefault("fog.alpha", fog.DefaultFogAlpha)
	v.SetDefault("fog.color", "black")
	v.SetDefault("fog.falloff", "linear")
	v.SetDefault("fog.inner_ratio", fog.DefaultInnerRatio)
	v.SetDefault("map.lat", 43.2630)
	v.SetDefault("map.lon", -2.9350)
	v.SetDefault("map.zoom", 13)
	v.SetDefault("map.min_zoom", mapview.DefaultMinZoom)
	v.SetDefault("map.max_zoom", mapview.DefaultMaxZoom)
	v.SetDefault("feed.kind", FeedWalker)
	v.SetDefault("feed.walker.interval", "1s")
	v.SetDefault("feed.walker.step", 0.001)
	v.SetDefault("feed.walker.seed", 0)
	v.SetDefault("feed.nats.url", "nats://localhost:4222")
	v.SetDefault("feed.nats.subject", "fogmap.position")
	v.SetDefault("feed.websocket.url", "ws://localhost:8080/position")
	v.SetDefault("feed.websocket.reconnect_wait", "2s")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("window.title", "fogmap")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional fogmap.yaml and FOGMAP_*
// environment variables. A non-empty path names the file explicitly; in that
// case it must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("fogmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// FOGMAP_FOG_RADIUS_METERS -> fog.radius_meters
	v.SetEnvPrefix("FOGMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Fog.RadiusMeters <= 0 {
		errs = append(errs, fmt.Sprintf("fog.radius_meters must be positive, got %v", c.Fog.RadiusMeters))
	}
	if c.Fog.Alpha <= 0 || c.Fog.Alpha > 1 {
		errs = append(errs, fmt.Sprintf("fog.alpha must be in (0, 1], got %v", c.Fog.Alpha))
	}
	if c.Fog.InnerRatio <= 0 || c.Fog.InnerRatio >= 1 {
		errs = append(errs, fmt.Sprintf("fog.inner_ratio must be in (0, 1), got %v", c.Fog.InnerRatio))
	}
	if _, err := ParseColor(c.Fog.Color); err != nil {
		errs = append(errs, "fog.color: "+err.Error())
	}
	if _, err := fog.ParseFalloff(c.Fog.Falloff); err != nil {
		errs = append(errs, "fog.falloff: "+err.Error())
	}
	if !c.Map.Center().Valid() {
		errs = append(errs, fmt.Sprintf("map center out of range: lat=%v lon=%v", c.Map.Lat, c.Map.Lon))
	}
	if c.Map.MinZoom < 0 || c.Map.MaxZoom > geo.MaxZoom || c.Map.MinZoom > c.Map.MaxZoom {
		errs = append(errs, fmt.Sprintf("map zoom limits must satisfy 0 <= min <= max <= %g, got [%v, %v]",
			geo.MaxZoom, c.Map.MinZoom, c.Map.MaxZoom))
	}

	switch c.Feed.Kind {
	case FeedWalker:
		if c.Feed.Walker.Interval <= 0 {
			errs = append(errs, "feed.walker.interval must be positive")
		}
		if c.Feed.Walker.Step <= 0 {
			errs = append(errs, "feed.walker.step must be positive")
		}
	case FeedNATS:
		if c.Feed.NATS.URL == "" {
			errs = append(errs, "feed.nats.url is required")
		}
		if c.Feed.NATS.Subject == "" {
			errs = append(errs, "feed.nats.subject is required")
		}
	case FeedWebSocket:
		if c.Feed.WebSocket.URL == "" {
			errs = append(errs, "feed.websocket.url is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("feed.kind must be one of %s, %s, %s; got %q",
			FeedWalker, FeedNATS, FeedWebSocket, c.Feed.Kind))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Sprintf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// FogOptions converts the fog section into renderer options. Call Validate
// first; unparseable fields fall back to renderer defaults.
func (c *Config) FogOptions() fog.Options {
	fc, _ := ParseColor(c.Fog.Color)
	fo, _ := fog.ParseFalloff(c.Fog.Falloff)
	return fog.Options{
		FogColor:     fc,
		FogAlpha:     c.Fog.Alpha,
		RadiusMeters: c.Fog.RadiusMeters,
		InnerRatio:   c.Fog.InnerRatio,
		Falloff:      fo,
	}
}

// ParseColor accepts an SVG colour name ("black", "midnightblue") or a
// #rrggbb hex triplet. Alpha is not part of the colour; see fog.alpha.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return nil, fmt.Errorf("unknown colour %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}
