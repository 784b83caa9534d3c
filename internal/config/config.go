package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vec3 is a point in meters as written in the config file.
type Vec3 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// Grid holds the construction parameters of an observation grid.
type Grid struct {
	Dim        int     `yaml:"dim"`
	Min        Vec3    `yaml:"min"`
	Max        Vec3    `yaml:"max"`
	Resolution float32 `yaml:"resolution"` // samples per meter

	SpeedOfSound float32 `yaml:"speed_of_sound"` // m/s

	// ResultOnGPU places the result buffer in device memory.
	ResultOnGPU bool `yaml:"result_on_gpu"`

	// StrictParams reports invalid speed of sound updates instead of
	// ignoring them.
	StrictParams bool `yaml:"strict_params"`
}

// DefaultGrid returns a 2D slice through a 10 cm deep, 4 cm wide volume in
// water, sampled every 0.5 mm.
func DefaultGrid() Grid {
	return Grid{
		Dim:          2,
		Min:          Vec3{X: -0.02, Y: 0, Z: 0},
		Max:          Vec3{X: 0.02, Y: 0, Z: 0.10},
		Resolution:   2000,
		SpeedOfSound: 1540,
	}
}

// LoadGrid loads grid config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadGrid(path string) (Grid, error) {
	cfg := DefaultGrid()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the parameters the grid itself does not check.
func (g Grid) Validate() error {
	var errs []error
	if g.Dim < 1 || g.Dim > 3 {
		errs = append(errs, fmt.Errorf("dim must be 1, 2 or 3, got %d", g.Dim))
	}
	if !(g.Resolution > 0) {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %g", g.Resolution))
	}
	if !(g.SpeedOfSound > 0) {
		errs = append(errs, fmt.Errorf("speed_of_sound must be positive, got %g", g.SpeedOfSound))
	}
	if g.Max.X < g.Min.X || g.Max.Y < g.Min.Y || g.Max.Z < g.Min.Z {
		errs = append(errs, fmt.Errorf("max %+v must not be below min %+v", g.Max, g.Min))
	}
	return errors.Join(errs...)
}
