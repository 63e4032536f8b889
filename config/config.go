// Package config is the program's own ambient configuration layer: a YAML
// file validated against struct tags, distinct from the flat key=value
// domain persistence format the reader uses for its per-book and settings
// caches (see kvstore and booksettings).
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level program configuration.
type Config struct {
	Version int           `yaml:"version" validate:"required"`
	BaseDir string        `yaml:"base_dir" validate:"required"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load reads and validates the YAML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sane defaults for running against baseDir
// without a YAML file on disk (e.g. the demonstration CLI).
func Default(baseDir string) *Config {
	return &Config{
		Version: 1,
		BaseDir: baseDir,
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
		},
	}
}
