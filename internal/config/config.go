// Package config loads server configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rangeforge/marksim/internal/motion"
)

type Config struct {
	Listen     ListenConfig     `yaml:"listen"`
	Database   DatabaseConfig   `yaml:"database"`
	Generation GenerationConfig `yaml:"generation"`
}

type ListenConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// GenerationConfig sets the default bounds used when API callers omit
// theirs. Requests may still carry explicit bounds.
type GenerationConfig struct {
	Bounds motion.Bounds `yaml:"bounds"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:     ListenConfig{Addr: ":8090"},
		Database:   DatabaseConfig{Path: "marksim.db"},
		Generation: GenerationConfig{Bounds: motion.DefaultBounds()},
	}
}

// Load reads and validates a YAML config file. Missing fields fall back to
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Listen.Addr == "" {
		return nil, fmt.Errorf("listen.addr must not be empty")
	}
	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database.path must not be empty")
	}
	if err := cfg.Generation.Bounds.Normalize().Validate(); err != nil {
		return nil, fmt.Errorf("generation.bounds: %w", err)
	}
	return cfg, nil
}
