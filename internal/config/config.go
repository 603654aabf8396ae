package config

import (
	"fmt"

	"github.com/OCharnyshevich/heightfield/pkg/heightfield"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatNBT  = "nbt"
)

// Config holds the height field generation settings.
type Config struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Seed        uint64  `json:"seed"`
	Count       int     `json:"count"`   // fields to generate, seeds Seed..Seed+Count-1
	Workers     int     `json:"workers"` // 0 = GOMAXPROCS
	OutputDir   string  `json:"output_dir"`
	Format      string  `json:"format"`      // "json" or "nbt"
	TimingFile  string  `json:"timing_file"` // empty = no timing log
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:       128,
		Height:      128,
		Octaves:     6,
		Persistence: heightfield.DefaultPersistence,
		Count:       1,
		OutputDir:   "out",
		Format:      FormatJSON,
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["width"] {
		cfg.Width = fromFile.Width
	}
	if !explicitFlags["height"] {
		cfg.Height = fromFile.Height
	}
	if !explicitFlags["octaves"] {
		cfg.Octaves = fromFile.Octaves
	}
	if !explicitFlags["persistence"] {
		cfg.Persistence = fromFile.Persistence
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["count"] {
		cfg.Count = fromFile.Count
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["out"] {
		cfg.OutputDir = fromFile.OutputDir
	}
	if !explicitFlags["format"] {
		cfg.Format = fromFile.Format
	}
	if !explicitFlags["timing"] {
		cfg.TimingFile = fromFile.TimingFile
	}
}

// Validate reports the first setting the generator would reject.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("size %dx%d: %w", c.Width, c.Height, heightfield.ErrInvalidArgument)
	case c.Octaves < 1:
		return fmt.Errorf("octaves %d: %w", c.Octaves, heightfield.ErrInvalidArgument)
	case !(c.Persistence > 0 && c.Persistence <= 1):
		return fmt.Errorf("persistence %v: %w", c.Persistence, heightfield.ErrInvalidArgument)
	case c.Count < 1:
		return fmt.Errorf("count %d: %w", c.Count, heightfield.ErrInvalidArgument)
	case c.Workers < 0:
		return fmt.Errorf("workers %d: %w", c.Workers, heightfield.ErrInvalidArgument)
	case c.Format != FormatJSON && c.Format != FormatNBT:
		return fmt.Errorf("format %q: %w", c.Format, heightfield.ErrInvalidArgument)
	}
	return nil
}
