// Package config provides configuration loading and structs for the integrity server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Extraction modes.
const (
	ExtractionRemote = "remote"
	ExtractionLocal  = "local"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Detector   DetectorConfig   `yaml:"detector"`
	Report     ReportConfig     `yaml:"report"`
	Risk       RiskConfig       `yaml:"risk"`
	History    HistoryConfig    `yaml:"history"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Intake     IntakeConfig     `yaml:"intake"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DetectorConfig points at the remote detection service.
type DetectorConfig struct {
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each request to the service; zero means no local timeout.
	Timeout         time.Duration `yaml:"timeout"`
	ThresholdHigh   float64       `yaml:"threshold_high"`
	ThresholdMedium float64       `yaml:"threshold_medium"`

	// HealthSchedule is a cron expression or descriptor (e.g. "@every 1m") for the
	// background availability probe. "off" disables it.
	HealthSchedule string `yaml:"health_schedule"`
}

// HealthScheduleOff disables the background availability probe.
const HealthScheduleOff = "off"

// ReportConfig holds document view settings.
type ReportConfig struct {
	HighlightThreshold float64 `yaml:"highlight_threshold"`
	PreviewChars       int     `yaml:"preview_chars"`
}

// RiskConfig holds originality cut points.
type RiskConfig struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
}

// HistoryConfig bounds the per-session ledger.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// AnalyticsConfig holds aggregation windows.
type AnalyticsConfig struct {
	TrendWindow   int `yaml:"trend_window"`
	TrendLabelLen int `yaml:"trend_label_len"`
	RecentLimit   int `yaml:"recent_limit"`
}

// ExtractionConfig selects where uploaded files are turned into text.
type ExtractionConfig struct {
	// Mode is "remote" (detection service upload endpoint) or "local".
	Mode string `yaml:"mode"`
}

// IntakeConfig holds drop-folder settings. Files created in Directories are submitted automatically.
type IntakeConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to false when unset.
func (i *IntakeConfig) RecursiveOrDefault() bool {
	if i.Recursive != nil {
		return *i.Recursive
	}
	return false
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Load reads and parses the config file at path, applies defaults, expands paths,
// and applies environment overrides. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	for i := range cfg.Intake.Directories {
		cfg.Intake.Directories[i] = expandPath(cfg.Intake.Directories[i], configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to defaults plus environment overrides when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg = Default()
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path. Used for persisting intake directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process environment.
// Missing files are skipped; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with INTEGRITY_* environment variables.
func ApplyEnv(cfg *Config) error {
	envOverride(&cfg.Server.Host, "INTEGRITY_SERVER_HOST")
	envOverride(&cfg.Detector.BaseURL, "INTEGRITY_DETECTOR_URL")
	envOverride(&cfg.Extraction.Mode, "INTEGRITY_EXTRACTION_MODE")
	envOverride(&cfg.Detector.HealthSchedule, "INTEGRITY_DETECTOR_HEALTH_SCHEDULE")
	if err := envOverrideInt(&cfg.Server.Port, "INTEGRITY_SERVER_PORT"); err != nil {
		return err
	}
	if err := envOverrideBool(&cfg.Debug, "INTEGRITY_DEBUG"); err != nil {
		return err
	}
	if v := os.Getenv("INTEGRITY_DETECTOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INTEGRITY_DETECTOR_TIMEOUT: %w", err)
		}
		cfg.Detector.Timeout = d
	}
	return nil
}

// Validate checks value ranges that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Extraction.Mode != ExtractionRemote && c.Extraction.Mode != ExtractionLocal {
		return fmt.Errorf("invalid extraction mode %q: want %q or %q", c.Extraction.Mode, ExtractionRemote, ExtractionLocal)
	}
	if c.Report.HighlightThreshold < 0 || c.Report.HighlightThreshold > 1 {
		return fmt.Errorf("highlight_threshold must be within [0,1], got %v", c.Report.HighlightThreshold)
	}
	if c.Risk.Medium > c.Risk.Low {
		return fmt.Errorf("risk.medium (%v) must not exceed risk.low (%v)", c.Risk.Medium, c.Risk.Low)
	}
	if c.Detector.Timeout < 0 {
		return fmt.Errorf("detector.timeout must not be negative")
	}
	return nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envOverrideBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
