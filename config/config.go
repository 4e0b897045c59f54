// Package config loads the process configuration: HTTP listen
// address, storage DSN and the ordered source list.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cinefeed/cinefeed/engine"
)

// Config is the structure of the YAML config file.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Storage struct {
		DSN string `yaml:"dsn"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Sources []engine.SourceConfig `yaml:"sources"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = "localhost:8080"
	cfg.Storage.DSN = "cinefeed.db"
	cfg.Logging.Level = "info"
	return cfg
}

// Load reads configuration from path. A missing file yields the
// defaults, not an error; a file that exists but cannot be parsed is
// an error. Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "localhost:8080"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "cinefeed.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
