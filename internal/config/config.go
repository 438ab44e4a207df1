// Package config loads and persists the monitor configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the persisted configuration: the probed target, the latency
// classification thresholds and the optional HTTP listener.
type Config struct {
	Target            string `yaml:"target"`
	GreenThresholdMs  int    `yaml:"green_threshold_ms"`
	YellowThresholdMs int    `yaml:"yellow_threshold_ms"`
	Listen            string `yaml:"listen"`
	UIDisable         bool   `yaml:"ui_disable"`
	LogLevel          string `yaml:"log_level"`
}

// Default returns the baseline configuration used when no file exists.
func Default() Config {
	return Config{
		Target:            "8.8.8.8",
		GreenThresholdMs:  100,
		YellowThresholdMs: 200,
		Listen:            "",
		UIDisable:         false,
		LogLevel:          "info",
	}
}

// DefaultPath returns the per-user config file location, creating the
// directory if needed.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	appDir := filepath.Join(dir, "pingclock")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return filepath.Join(appDir, "config.yaml"), nil
}

// Load reads configuration from a yaml file. Missing files fall back to
// defaults; obviously broken values are normalized rather than rejected.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return normalize(cfg), nil
}

// Save writes the configuration back to the yaml file.
func (c Config) Save(path string) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}
	content, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GreenThreshold returns the green threshold as a duration.
func (c Config) GreenThreshold() time.Duration {
	return time.Duration(c.GreenThresholdMs) * time.Millisecond
}

// YellowThreshold returns the yellow threshold as a duration.
func (c Config) YellowThreshold() time.Duration {
	return time.Duration(c.YellowThresholdMs) * time.Millisecond
}

func normalize(cfg Config) Config {
	defaults := Default()
	if cfg.Target == "" {
		cfg.Target = defaults.Target
	}
	if cfg.GreenThresholdMs <= 0 {
		cfg.GreenThresholdMs = defaults.GreenThresholdMs
	}
	if cfg.YellowThresholdMs <= 0 {
		cfg.YellowThresholdMs = defaults.YellowThresholdMs
	}
	if cfg.YellowThresholdMs < cfg.GreenThresholdMs {
		cfg.YellowThresholdMs = cfg.GreenThresholdMs
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	return cfg
}

// CLIOverrides holds optional CLI values that override config file values.
type CLIOverrides struct {
	Target            *string
	GreenThresholdMs  *int
	YellowThresholdMs *int
	Listen            *string
	UIDisable         *bool
	LogLevel          *string
}

// Apply overlays set CLI values onto the configuration.
func (c Config) Apply(overrides CLIOverrides) Config {
	if overrides.Target != nil && *overrides.Target != "" {
		c.Target = *overrides.Target
	}
	if overrides.GreenThresholdMs != nil {
		c.GreenThresholdMs = *overrides.GreenThresholdMs
	}
	if overrides.YellowThresholdMs != nil {
		c.YellowThresholdMs = *overrides.YellowThresholdMs
	}
	if overrides.Listen != nil {
		c.Listen = *overrides.Listen
	}
	if overrides.UIDisable != nil {
		c.UIDisable = *overrides.UIDisable
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		c.LogLevel = *overrides.LogLevel
	}
	return normalize(c)
}
