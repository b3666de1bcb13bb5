package config

import (
	"path/filepath"
	"time"
)

// Config represents the complete ringclock configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	State   StateConfig   `yaml:"state"`
	Clock   ClockConfig   `yaml:"clock"`
	Icon    IconConfig    `yaml:"icon"`

	// Path is the file the config was read from; empty for built-in defaults.
	Path string `yaml:"-"`
}

// ServiceConfig defines process-wide settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// StateConfig selects and locates the preference backend.
type StateConfig struct {
	Driver   string `yaml:"driver"` // sqlite, bolt or memory
	Path     string `yaml:"path"`
	LockPath string `yaml:"lock_path"`
}

// ClockConfig tunes the ring controller.
type ClockConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`
	AnimationDuration time.Duration `yaml:"animation_duration"`
	MaxTiltDegrees    float64       `yaml:"max_tilt_degrees"`
}

// IconConfig controls the icon updater.
type IconConfig struct {
	Enabled      bool          `yaml:"enabled"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Sizes        []int         `yaml:"sizes"`
	OutputDir    string        `yaml:"output_dir"`
	Prefix       string        `yaml:"prefix"`
}

// ChecksumManifest is the .checksums file written by `config lock`.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// Defaults returns a Config usable without any file.
func Defaults() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Service: ServiceConfig{
			Name:      "ringclock",
			LogLevel:  "info",
			LogFormat: "text",
		},
		State: StateConfig{
			Driver:   "sqlite",
			Path:     filepath.Join(dataDir, "prefs.db"),
			LockPath: filepath.Join(dataDir, "ringclock.lock"),
		},
		Clock: ClockConfig{
			TickInterval:      100 * time.Millisecond,
			AnimationDuration: time.Second,
			MaxTiltDegrees:    40,
		},
		Icon: IconConfig{
			Enabled:      true,
			TickInterval: time.Second,
			Sizes:        []int{24, 128},
			OutputDir:    filepath.Join(dataDir, "icons"),
			Prefix:       "ringclock",
		},
	}
}
