// Package config handles simulation configuration loading and management.
package config

import (
	"time"

	"github.com/ubuntunux/stoneage/internal/game/character"
)

// Config holds all settings.
type Config struct {
	Simulation SimulationConfig           `yaml:"simulation" envPrefix:"SIMULATION_"`
	Controller character.ControllerConfig `yaml:"controller"`
	Stamina    character.StaminaConfig    `yaml:"stamina"`
	Audio      AudioConfig                `yaml:"audio" envPrefix:"AUDIO_"`
	Data       DataConfig                 `yaml:"data" envPrefix:"DATA_"`
	Logging    LoggingConfig              `yaml:"logging" envPrefix:"LOG_"`
}

// SimulationConfig holds frame stepping settings.
type SimulationConfig struct {
	TickRate    int           `yaml:"tick_rate" env:"TICK_RATE"`       // frames per second
	MaxDelta    time.Duration `yaml:"max_delta" env:"MAX_DELTA"`       // longer frames are clamped
	Frames      int           `yaml:"frames" env:"FRAMES"`             // 0 runs until interrupted
	Realtime    bool          `yaml:"realtime" env:"REALTIME"`         // pace frames on a ticker
	StatusEvery int           `yaml:"status_every" env:"STATUS_EVERY"` // frames between status logs, 0 disables
}

// FrameDelta returns the fixed frame step.
func (s SimulationConfig) FrameDelta() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.TickRate)
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	MasterVolume float64 `yaml:"master_volume" env:"MASTER_VOLUME"`
	SFXVolume    float64 `yaml:"sfx_volume" env:"SFX_VOLUME"`
	Muted        bool    `yaml:"muted" env:"MUTED"`
	SoundDir     string  `yaml:"sound_dir" env:"SOUND_DIR"` // directory of .wav cues
}

// DataConfig holds the game-data file settings.
type DataConfig struct {
	Path  string `yaml:"path" env:"PATH"`
	Watch bool   `yaml:"watch" env:"WATCH"` // reload on change
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"LEVEL"`
	LogFile string `yaml:"log_file" env:"FILE"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:    60,
			MaxDelta:    100 * time.Millisecond,
			Frames:      0,
			Realtime:    false,
			StatusEvery: 300,
		},
		Controller: character.DefaultControllerConfig(),
		Stamina:    character.DefaultStaminaConfig(),
		Audio: AudioConfig{
			Enabled:      false,
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			Muted:        false,
			SoundDir:     "sounds",
		},
		Data: DataConfig{
			Path:  "data/stoneage.yaml",
			Watch: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
