// Package config loads simulation defaults from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"lineagecore/pkg/lineage"
)

// DefaultOutputFile matches the artifact name produced by historical runs.
const DefaultOutputFile = "WholeAnimalCellLineage.tree"

// Simulation holds the [simulation] section.
type Simulation struct {
	TotalCells int      `toml:"total_cells"`
	CycleTime  float64  `toml:"cycle_time"`
	MitoticA   float64  `toml:"mitotic_a"`
	MitoticB   float64  `toml:"mitotic_b"`
	Founders   []string `toml:"founders"`
}

// Output holds the [output] section.
type Output struct {
	File string `toml:"file"`
}

// Config is the full configuration file shape.
type Config struct {
	Simulation Simulation `toml:"simulation"`
	Output     Output     `toml:"output"`
}

// Default returns the built-in configuration used when no file is present.
func Default() Config {
	return Config{
		Simulation: Simulation{
			TotalCells: 1000,
			CycleTime:  1.0,
			MitoticA:   0.999,
			MitoticB:   0.7,
		},
		Output: Output{File: DefaultOutputFile},
	}
}

// Load reads the configuration file at path, overlaying it on Default().
// A missing file is not an error; malformed TOML is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Output.File == "" {
		cfg.Output.File = DefaultOutputFile
	}
	return cfg, nil
}

// Params converts the simulation section into engine parameters.
func (c Config) Params() lineage.Params {
	return lineage.Params{
		TotalCells: c.Simulation.TotalCells,
		CycleTime:  c.Simulation.CycleTime,
		MitoticA:   c.Simulation.MitoticA,
		MitoticB:   c.Simulation.MitoticB,
		Founders:   c.Simulation.Founders,
	}
}
