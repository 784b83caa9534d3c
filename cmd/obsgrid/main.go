// Command obsgrid builds an observation grid from a YAML description and
// reports its geometry and result placement.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Distortions81/huygens-grid/internal/config"
	"github.com/Distortions81/huygens-grid/internal/device"
	"github.com/Distortions81/huygens-grid/obsgrid"
)

const defaultConfigPath = "config/grid.yaml"

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadGrid(*configPathFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	set := setFlags()
	cfg = applyOverrides(cfg, set)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	w, h, err := parseRaster(*rasterFlag)
	if err != nil {
		return err
	}

	slog.Info("building observation grid",
		"dim", cfg.Dim,
		"resolution", cfg.Resolution,
		"result_on_gpu", cfg.ResultOnGPU,
		"device_compiled", device.Compiled())

	var opts []obsgrid.Option
	if cfg.StrictParams {
		opts = append(opts, obsgrid.WithStrictParams())
	}
	g, err := buildProfiled(*cpuProfileFlag, func() (*obsgrid.ObservationGrid, error) {
		return obsgrid.New(cfg.Dim, toCoord(cfg.Min), toCoord(cfg.Max), cfg.Resolution, cfg.SpeedOfSound, cfg.ResultOnGPU, opts...)
	})
	if err != nil {
		return fmt.Errorf("creating observation grid: %w", err)
	}
	defer g.Close()

	// Applied through the setter so the configured rejection mode is honored.
	if set["speed-of-sound"] {
		if err := g.SetSpeedOfSound(float32(*speedOfSoundFlag)); err != nil {
			return err
		}
	}

	n := g.PointCounts()
	size := g.AreaSize()
	slog.Info("observation grid ready",
		"nx", n.X, "ny", n.Y, "nz", n.Z,
		"points", g.TotalPointCount(),
		"size_m", fmt.Sprintf("%gx%gx%g", size.X, size.Y, size.Z),
		"speed_of_sound", g.SpeedOfSound(),
		"flattened_floats", len(g.FlattenedPoints()))

	rb := g.ResultBuffer()
	if db, ok := rb.(*obsgrid.DeviceBuffer); ok {
		slog.Info("result buffer on device", "elements", rb.Len(), "backend", db.Backend().Name())
	} else {
		slog.Info("result buffer on host", "elements", rb.Len())
	}

	for _, c := range [][2]int{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		p := g.PositionAt(c[0], c[1], w, h)
		slog.Info("raster position", "x", c[0], "z", c[1], "pos", fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z))
	}
	return nil
}

// setFlags returns the names of flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyOverrides copies explicitly set flags over the loaded config.
func applyOverrides(cfg config.Grid, set map[string]bool) config.Grid {
	if set["resolution"] && *resolutionFlag > 0 {
		cfg.Resolution = float32(*resolutionFlag)
	}
	if set["result-on-gpu"] {
		cfg.ResultOnGPU = *resultOnGPUFlag
	}
	if set["strict"] {
		cfg.StrictParams = *strictFlag
	}
	return cfg
}

// parseRaster parses a "WxH" raster size.
func parseRaster(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("parsing raster %q: %w", s, err)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("raster %q must be at least 1x1", s)
	}
	return w, h, nil
}

func toCoord(v config.Vec3) obsgrid.Coord {
	return obsgrid.Coord{X: v.X, Y: v.Y, Z: v.Z}
}
