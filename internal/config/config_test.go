package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/fogmap/internal/fog"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Fog.RadiusMeters != fog.DefaultRadiusMeters {
		t.Fatalf("radius default: got %v", cfg.Fog.RadiusMeters)
	}
	if cfg.Fog.Alpha != fog.DefaultFogAlpha {
		t.Fatalf("alpha default: got %v", cfg.Fog.Alpha)
	}
	if cfg.Feed.Kind != FeedWalker {
		t.Fatalf("feed default: got %q", cfg.Feed.Kind)
	}
	if cfg.Feed.Walker.Interval != time.Second {
		t.Fatalf("walker interval default: got %v", cfg.Feed.Walker.Interval)
	}
	if cfg.Feed.NATS.Subject != "fogmap.position" {
		t.Fatalf("nats subject default: got %q", cfg.Feed.NATS.Subject)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fogmap.yaml")
	yaml := `
fog:
  radius_meters: 500
  color: "#102030"
  falloff: smooth
feed:
  kind: websocket
  websocket:
    url: ws://example.test/pos
    reconnect_wait: 250ms
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOGMAP_FOG_ALPHA", "0.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fog.RadiusMeters != 500 {
		t.Fatalf("file radius: got %v", cfg.Fog.RadiusMeters)
	}
	if cfg.Fog.Alpha != 0.5 {
		t.Fatalf("env alpha should override default: got %v", cfg.Fog.Alpha)
	}
	if cfg.Feed.WebSocket.ReconnectWait != 250*time.Millisecond {
		t.Fatalf("duration decode: got %v", cfg.Feed.WebSocket.ReconnectWait)
	}

	opts := cfg.FogOptions()
	if opts.Falloff != fog.FalloffSmooth {
		t.Fatalf("falloff: got %v", opts.Falloff)
	}
	if got := color.RGBAModel.Convert(opts.FogColor).(color.RGBA); got != (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Fatalf("colour: got %v", got)
	}
}

func TestLoad_SearchesConfigsDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configs", "fogmap.yaml"), []byte("map:\n  zoom: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Map.Zoom != 7 {
		t.Fatalf("zoom from ./configs: got %v", cfg.Map.Zoom)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("an explicit path that does not exist should fail")
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fog.Alpha = 1.5
	cfg.Fog.RadiusMeters = -1
	cfg.Feed.Kind = "carrier-pigeon"
	cfg.Fog.Color = "notacolour"

	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"fog.alpha", "fog.radius_meters", "feed.kind", "fog.color"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error should mention %s:\n%v", want, err)
		}
	}
}

func TestValidate_FeedSpecificFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"nats_url", func(c *Config) { c.Feed.Kind = FeedNATS; c.Feed.NATS.URL = "" }, "feed.nats.url"},
		{"ws_url", func(c *Config) { c.Feed.Kind = FeedWebSocket; c.Feed.WebSocket.URL = "" }, "feed.websocket.url"},
		{"walker_step", func(c *Config) { c.Feed.Walker.Step = 0 }, "feed.walker.step"},
		{"zoom_limits", func(c *Config) { c.Map.MinZoom, c.Map.MaxZoom = 10, 5 }, "zoom limits"},
		{"center", func(c *Config) { c.Map.Lat = 95 }, "map center"},
	}
	t.Chdir(t.TempDir())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"black", color.RGBA{A: 0xff}, false},
		{" MidnightBlue ", color.RGBA{R: 0x19, G: 0x19, B: 0x70, A: 0xff}, false},
		{"#ff8000", color.RGBA{R: 0xff, G: 0x80, A: 0xff}, false},
		{"#ff80", color.RGBA{}, true},
		{"#gg0000", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseColor(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := color.RGBAModel.Convert(c).(color.RGBA); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
