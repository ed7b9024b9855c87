// Package config loads and watches the agent configuration file. The file is
// JSON5, so it tolerates comments and trailing commas.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/titanous/json5"

	"github.com/Dream2Nightmare/brainbot/internal/proc"
)

// Config is the whole agent configuration.
type Config struct {
	BaseDir   string   `json:"base_dir"`
	ScanRoots []string `json:"scan_roots"`

	ScanInterval  string `json:"scan_interval"`
	DreamInterval string `json:"dream_interval"`
	DreamCron     string `json:"dream_cron"`

	Craving CravingConfig `json:"craving"`
	Senses  SensesConfig  `json:"senses"`
	Seeker  SeekerConfig  `json:"seeker"`
	Gateway GatewayConfig `json:"gateway"`
	Tracing TracingConfig `json:"tracing"`

	Helpers []proc.Entry `json:"helpers"`
}

// CravingConfig controls the autonomous loop.
type CravingConfig struct {
	Enabled bool `json:"enabled"`
}

// SensesConfig controls the ambient sense loop. Disabled by default: sensors
// are external collaborators the user opts into.
type SensesConfig struct {
	Enabled  bool   `json:"enabled"`
	Interval string `json:"interval"`
}

// SeekerConfig selects and configures the search collaborator.
// Provider is "browser", "http" or "" (disabled).
type SeekerConfig struct {
	Provider string `json:"provider"`
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key"`
}

// GatewayConfig controls the local WebSocket surface.
type GatewayConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// TracingConfig controls OTLP trace export. Empty endpoint disables export.
type TracingConfig struct {
	Endpoint string `json:"endpoint"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		BaseDir:       filepath.Join(home, ".brainbot"),
		ScanRoots:     []string{filepath.Join(home, "Documents")},
		ScanInterval:  "5m",
		DreamInterval: "30m",
		Craving:       CravingConfig{Enabled: true},
		Senses:        SensesConfig{Interval: "1m"},
		Gateway:       GatewayConfig{Addr: "127.0.0.1:18791"},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".brainbot", "config.json5")
}

// Load reads the config file at path, applies env overrides and validates
// durations. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(cfg)

	if _, err := cfg.ScanIntervalDuration(); err != nil {
		return nil, err
	}
	if _, err := cfg.DreamIntervalDuration(); err != nil {
		return nil, err
	}
	if _, err := cfg.SenseIntervalDuration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as indented JSON, which is valid JSON5.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ScanIntervalDuration parses the idle scan interval.
func (c *Config) ScanIntervalDuration() (time.Duration, error) {
	return parseInterval("scan_interval", c.ScanInterval)
}

// DreamIntervalDuration parses the dream interval.
func (c *Config) DreamIntervalDuration() (time.Duration, error) {
	return parseInterval("dream_interval", c.DreamInterval)
}

// SenseIntervalDuration parses the sense loop interval.
func (c *Config) SenseIntervalDuration() (time.Duration, error) {
	return parseInterval("senses.interval", c.Senses.Interval)
}

func parseInterval(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return d, nil
}

// applyEnv overlays BRAINBOT_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BRAINBOT_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("BRAINBOT_GATEWAY_ADDR"); v != "" {
		cfg.Gateway.Addr = v
	}
	if v := os.Getenv("BRAINBOT_TRACE_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
	}
	if v := os.Getenv("BRAINBOT_SEEKER_API_KEY"); v != "" {
		cfg.Seeker.APIKey = v
	}
}
