package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Garsondee/fogmap/internal/fog"
	"github.com/Garsondee/fogmap/internal/geo"
	"github.com/Garsondee/fogmap/internal/logging"
	"github.com/Garsondee/fogmap/internal/overlay"
)

var (
	reportLatitudes = []float64{0, 30, 43.263, 60, 80, geo.MaxLatitude}
	reportZooms     = []float64{0, 5, 10, 13, 15, 17, 19}
)

// radiusRow is one line of the scale table.
type radiusRow struct {
	lat            float64
	zoom           float64
	metersPerPixel float64
	pixelRadius    float64
	clamped        bool
}

// walkStats summarises one headless walker run.
type walkStats struct {
	ticks        int
	seed         int64
	start        geo.Point
	end          geo.Point
	distance     float64 // metres along the path
	displacement float64 // metres start to end
	repaints     int     // renderer passes, two per step when following
	degraded     int
	minRadius    float64
	maxRadius    float64
	coverage     float64
}

type runParams struct {
	ticks   int
	seed    int64
	zoom    float64
	start   geo.Point
	width   int
	height  int
	radius  float64
	falloff fog.Falloff
	follow  bool
}

func main() {
	var (
		p        runParams
		lat, lon float64
		falloff  string
		pngPath  string
		logLevel string
	)
	flag.IntVar(&p.ticks, "ticks", 600, "walker steps to simulate")
	flag.Int64Var(&p.seed, "seed", 42, "walker RNG seed")
	flag.Float64Var(&p.zoom, "zoom", 15, "map zoom level")
	flag.Float64Var(&lat, "lat", 43.2630, "start latitude")
	flag.Float64Var(&lon, "lon", -2.9350, "start longitude")
	flag.IntVar(&p.width, "width", 800, "viewport width in pixels")
	flag.IntVar(&p.height, "height", 600, "viewport height in pixels")
	flag.Float64Var(&p.radius, "radius", fog.DefaultRadiusMeters, "visibility radius in metres")
	flag.StringVar(&falloff, "falloff", "linear", "hole rim falloff: linear or smooth")
	flag.BoolVar(&p.follow, "follow", true, "keep the camera centred on the walker")
	flag.StringVar(&pngPath, "png", "", "write the final fog frame to this PNG file")
	flag.StringVar(&logLevel, "log-level", "warn", "log level")
	flag.Parse()

	logger := logging.New(os.Stderr, logLevel, "text")
	p.start = geo.Point{Lon: lon, Lat: lat}

	if p.ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if p.width <= 0 || p.height <= 0 {
		fmt.Println("error: -width and -height must be > 0")
		return
	}
	if !p.start.Valid() {
		fmt.Printf("error: start position %s is out of range\n", p.start)
		return
	}
	fo, err := fog.ParseFalloff(falloff)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	p.falloff = fo

	fmt.Printf("=== Headless Fog Report ===\n")
	fmt.Printf("radius=%.0fm falloff=%s viewport=%dx%d\n\n", p.radius, p.falloff, p.width, p.height)

	printRadiusTable(os.Stdout, radiusTable(p.radius, reportLatitudes, reportZooms))

	sim, stats := runWalk(p, logger)
	printWalk(os.Stdout, stats)

	if pngPath != "" {
		if err := writePNG(pngPath, sim.Surface.Image()); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("frame written to %s\n", pngPath)
	}
}

func radiusTable(meters float64, lats, zooms []float64) []radiusRow {
	rows := make([]radiusRow, 0, len(lats)*len(zooms))
	for _, lat := range lats {
		for _, z := range zooms {
			px, ok := geo.PixelRadius(meters, lat, z)
			rows = append(rows, radiusRow{
				lat:            lat,
				zoom:           z,
				metersPerPixel: geo.MetersPerPixel(lat, z),
				pixelRadius:    px,
				clamped:        !ok || px <= geo.MinPixelRadius || px >= geo.MaxPixelRadius,
			})
		}
	}
	return rows
}

func printRadiusTable(w io.Writer, rows []radiusRow) {
	fmt.Fprintf(w, "--- Radius table ---\n")
	fmt.Fprintf(w, "%9s %5s %14s %12s\n", "lat", "zoom", "m/px", "radius_px")
	for _, r := range rows {
		mark := ""
		if r.clamped {
			mark = " (clamped)"
		}
		fmt.Fprintf(w, "%9.4f %5.1f %14.4f %12.2f%s\n", r.lat, r.zoom, r.metersPerPixel, r.pixelRadius, mark)
	}
	fmt.Fprintln(w)
}

// runWalk steps a seeded walker through a headless overlay and collects
// per-frame statistics.
func runWalk(p runParams, logger *slog.Logger) (*overlay.Sim, walkStats) {
	sim := overlay.NewSim(
		overlay.WithViewport(p.width, p.height),
		overlay.WithCamera(p.start, p.zoom),
		overlay.WithSeed(p.seed),
		overlay.WithFollow(p.follow),
		overlay.WithFog(fog.Options{RadiusMeters: p.radius, Falloff: p.falloff}),
		overlay.WithSimLogger(logger),
	)
	st := walkStats{
		ticks:     p.ticks,
		seed:      p.seed,
		start:     sim.Overlay.Entity().Position,
		minRadius: sim.Overlay.Frame().PixelRadius,
		maxRadius: sim.Overlay.Frame().PixelRadius,
	}
	prev := st.start
	base := sim.Overlay.Repaints()
	for i := 0; i < p.ticks; i++ {
		f := sim.Step()
		if f.Err != nil {
			st.degraded++
		}
		if f.PixelRadius < st.minRadius {
			st.minRadius = f.PixelRadius
		}
		if f.PixelRadius > st.maxRadius {
			st.maxRadius = f.PixelRadius
		}
		pos := sim.Overlay.Entity().Position
		st.distance += geo.Haversine(prev, pos)
		prev = pos
	}
	st.end = prev
	st.repaints = sim.Overlay.Repaints() - base
	st.displacement = geo.Haversine(st.start, st.end)
	st.coverage = sim.Coverage()
	return sim, st
}

func printWalk(w io.Writer, st walkStats) {
	fmt.Fprintf(w, "--- Walk (seed=%d, ticks=%d) ---\n", st.seed, st.ticks)
	fmt.Fprintf(w, "start=%s end=%s\n", st.start, st.end)
	fmt.Fprintf(w, "path=%.1fm displacement=%.1fm\n", st.distance, st.displacement)
	fmt.Fprintf(w, "repaints=%d degraded=%d radius_px=%.2f..%.2f\n", st.repaints, st.degraded, st.minRadius, st.maxRadius)
	fmt.Fprintf(w, "final_frame_revealed=%s\n", percent(st.coverage))
	fmt.Fprintln(w)
}

func percent(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v*100), "0"), ".") + "%"
}

func writePNG(path string, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("write %s: no frame", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
