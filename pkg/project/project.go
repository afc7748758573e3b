// Package project loads analyzer configuration from a loam.toml file found
// in the project root.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents a loam.toml configuration file.
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Index    IndexConfig    `toml:"index"`
}

// AnalysisConfig tunes the population and checking phases.
type AnalysisConfig struct {
	// Parallelism bounds how many classes populate concurrently within one
	// topological level. Zero means one worker per CPU.
	Parallelism int `toml:"parallelism"`

	// TreatMixedAsError turns coercible mismatches that stem from mixed
	// inputs into hard errors instead of suggestions.
	TreatMixedAsError bool `toml:"treat_mixed_as_error"`
}

// IndexConfig controls the on-disk cross-reference index.
type IndexConfig struct {
	// Path is the SQLite database location, relative to loam.toml. Empty
	// disables the index.
	Path string `toml:"path"`
}

// Default returns the configuration used when no loam.toml exists.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{Parallelism: runtime.NumCPU()},
	}
}

// Load reads a loam.toml file from the given path.
func Load(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if config.Analysis.Parallelism <= 0 {
		config.Analysis.Parallelism = runtime.NumCPU()
	}
	return config, nil
}

// Find searches for a loam.toml starting from dir and walking up to parent
// directories. Returns the path and the parsed config, or ("", defaults,
// nil) when no file is found.
func Find(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, "loam.toml")
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		// Stop at repository boundary
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", Default(), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", Default(), nil
		}
		dir = parent
	}
}
