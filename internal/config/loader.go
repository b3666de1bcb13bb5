package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable consulted by Discover.
const EnvConfig = "RINGCLOCK_CONFIG"

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ErrNoConfig is returned by Discover when no config file exists.
var ErrNoConfig = errors.New("no config file found")

// Load reads configPath, overlays it on Defaults and validates the result.
// A directory is accepted if it holds config.yaml.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}
	if info.IsDir() {
		absPath = filepath.Join(absPath, "config.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("directory provided but config.yaml not found: %s", absPath)
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if err := verifyConfigHash(absPath); err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	cfg.Path = absPath
	cfg.resolvePaths(filepath.Dir(absPath))

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML over Defaults without validating.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	interpolated := interpolateEnv(string(data))
	if strings.TrimSpace(interpolated) == "" {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(interpolated)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// Discover returns the config to use. Priority order: explicit path,
// $RINGCLOCK_CONFIG, ~/.config/ringclock/config.yaml, built-in defaults.
func Discover(explicit string) (*Config, error) {
	path, err := DiscoverPath(explicit)
	if errors.Is(err, ErrNoConfig) {
		cfg := Defaults()
		if err := validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid default configuration: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// DiscoverPath resolves the config file path without loading it. An
// explicit path or $RINGCLOCK_CONFIG must exist; the user path is optional.
func DiscoverPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if env := os.Getenv(EnvConfig); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("$%s points at %s: %w", EnvConfig, env, err)
		}
		return env, nil
	}

	if p := UserConfigPath(); p != "" && fileExists(p) {
		return p, nil
	}

	return "", fmt.Errorf("%w (checked: $%s, %s)", ErrNoConfig, EnvConfig, UserConfigPath())
}

// UserConfigPath is ~/.config/ringclock/config.yaml, or "" without a home.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ringclock", "config.yaml")
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "ringclock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "data")
	}
	return filepath.Join(home, ".local", "share", "ringclock")
}

// resolvePaths makes relative paths relative to the config file directory.
func (c *Config) resolvePaths(baseDir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.State.Path = abs(c.State.Path)
	c.State.LockPath = abs(c.State.LockPath)
	c.Icon.OutputDir = abs(c.Icon.OutputDir)
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is (not expanded).
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

// Validate reports the first problem with cfg.
func Validate(cfg *Config) error {
	return validate(cfg)
}

func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}
	if cfg.Service.LogFormat != "json" && cfg.Service.LogFormat != "text" {
		return fmt.Errorf("service.log_format must be json or text (got %q)", cfg.Service.LogFormat)
	}

	switch strings.ToLower(cfg.State.Driver) {
	case "sqlite", "bolt":
		if cfg.State.Path == "" {
			return fmt.Errorf("state.path is required for driver %q", cfg.State.Driver)
		}
		if err := checkUnresolved("state.path", cfg.State.Path); err != nil {
			return err
		}
	case "memory":
	default:
		return fmt.Errorf("state.driver must be one of: sqlite, bolt, memory (got %q)", cfg.State.Driver)
	}

	if cfg.Clock.TickInterval <= 0 {
		return fmt.Errorf("clock.tick_interval must be positive")
	}
	if cfg.Clock.AnimationDuration <= 0 {
		return fmt.Errorf("clock.animation_duration must be positive")
	}
	if cfg.Clock.MaxTiltDegrees <= 0 || cfg.Clock.MaxTiltDegrees > 90 {
		return fmt.Errorf("clock.max_tilt_degrees must be in (0, 90] (got %g)", cfg.Clock.MaxTiltDegrees)
	}

	if cfg.Icon.Enabled {
		if cfg.Icon.TickInterval <= 0 {
			return fmt.Errorf("icon.tick_interval must be positive")
		}
		if len(cfg.Icon.Sizes) == 0 {
			return fmt.Errorf("icon.sizes must be non-empty when icons are enabled")
		}
		for i, size := range cfg.Icon.Sizes {
			if size < 8 || size > 2048 {
				return fmt.Errorf("icon.sizes[%d] must be within 8..2048 (got %d)", i, size)
			}
		}
		if cfg.Icon.OutputDir == "" {
			return fmt.Errorf("icon.output_dir is required when icons are enabled")
		}
		if err := checkUnresolved("icon.output_dir", cfg.Icon.OutputDir); err != nil {
			return err
		}
	}
	return nil
}

func checkUnresolved(field, value string) error {
	if matches := envVarPattern.FindStringSubmatch(value); len(matches) > 1 {
		return fmt.Errorf("%s: environment variable ${%s} is not set", field, matches[1])
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
