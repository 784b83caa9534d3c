package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/Distortions81/huygens-grid/obsgrid"
)

// buildProfiled runs build under a CPU profile written to path, so the
// profile covers point generation and result allocation only. An empty path
// runs build unprofiled.
func buildProfiled(path string, build func() (*obsgrid.ObservationGrid, error)) (*obsgrid.ObservationGrid, error) {
	if path == "" {
		return build()
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("starting cpu profile: %w", err)
	}

	start := time.Now()
	g, buildErr := build()
	pprof.StopCPUProfile()
	if err := f.Close(); err != nil && buildErr == nil {
		g.Close()
		return nil, fmt.Errorf("writing cpu profile: %w", err)
	}
	slog.Info("cpu profile written", "path", path, "build", time.Since(start))
	return g, buildErr
}
