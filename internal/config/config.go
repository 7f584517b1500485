// Package config loads probetool settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every setting the tool reads from its configuration file.
type Config struct {
	Export  Export  `toml:"export"`
	Log     Log     `toml:"log"`
	Capture Capture `toml:"capture"`
}

// Export controls DDS export.
type Export struct {
	OutputDir string `toml:"output_dir"`
	Flip      bool   `toml:"flip"`
	Workers   int    `toml:"workers"`
	QueueSize int    `toml:"queue_size"`
	DumpFaces bool   `toml:"dump_faces"`
}

// Log controls logging.
type Log struct {
	Level string `toml:"level"`
}

// Capture controls capture file encoding.
type Capture struct {
	CompressionLevel int `toml:"compression_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Export: Export{
			OutputDir: "out",
			Flip:      true,
			Workers:   runtime.NumCPU(),
			QueueSize: 16,
		},
		Log: Log{
			Level: "info",
		},
		Capture: Capture{
			CompressionLevel: 5,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping fields the data does not set,
// and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Export.Workers < 1 {
		return fmt.Errorf("export.workers must be at least 1, got %d", c.Export.Workers)
	}
	if c.Export.QueueSize < 0 {
		return fmt.Errorf("export.queue_size must not be negative, got %d", c.Export.QueueSize)
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	return nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
