package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STONEAGE_"

// Overrides are command-line values. Nil and empty fields are not applied.
type Overrides struct {
	ConfigPath string
	Debug      bool
	Frames     *int
	DataPath   string
	Watch      *bool
	Realtime   *bool
}

// Load loads configuration with priority: defaults < file < environment <
// overrides.
func Load(o Overrides) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := o.ConfigPath
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	// CLI overrides (highest priority)
	o.apply(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "StoneAge")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "StoneAge")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "stoneage")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "stoneage")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv applies STONEAGE_* variables on top of cfg.
func loadFromEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Frames != nil {
		cfg.Simulation.Frames = *o.Frames
	}
	if o.DataPath != "" {
		cfg.Data.Path = o.DataPath
	}
	if o.Watch != nil {
		cfg.Data.Watch = *o.Watch
	}
	if o.Realtime != nil {
		cfg.Simulation.Realtime = *o.Realtime
	}
}
