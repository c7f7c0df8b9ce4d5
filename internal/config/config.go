// Package config provides configuration management for sitectl.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the sitectl configuration.
type Config struct {
	Sitectl     SitectlConfig     `yaml:"sitectl"`
	Alert       AlertConfig       `yaml:"alert"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`

	// Groups maps group names to display descriptions.
	Groups map[string]string `yaml:"groups"`
}

// SitectlConfig contains the main settings.
type SitectlConfig struct {
	// Dataset is the path to the progress spreadsheet (.csv, .xlsx, .xls).
	Dataset string `yaml:"dataset"`
}

// AlertConfig contains threshold alert settings.
type AlertConfig struct {
	// Threshold is the group mean, in percent, below which a group alerts.
	Threshold float64 `yaml:"threshold"`
}

// AggregationConfig controls how means are computed.
type AggregationConfig struct {
	// Weighted switches means from per-item averages to Σexecuted/Σtotal.
	Weighted bool `yaml:"weighted"`
}

// ScheduleConfig contains schedule comparison settings.
type ScheduleConfig struct {
	CriticalMargin float64 `yaml:"critical_margin"`
	ElapsedDays    float64 `yaml:"elapsed_days"`
	PlannedDays    float64 `yaml:"planned_days"`
}

// HasSchedule returns true if a planned duration is configured.
func (s ScheduleConfig) HasSchedule() bool {
	return s.PlannedDays > 0
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	MaxReports     int    `yaml:"max_reports"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sitectl: SitectlConfig{
			Dataset: "progress.csv",
		},
		Alert: AlertConfig{
			Threshold: 50,
		},
		Schedule: ScheduleConfig{
			CriticalMargin: 5,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
			MaxReports:     100,
		},
		Log: LogConfig{
			Level: "info",
		},
		Groups: make(map[string]string),
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if math.IsNaN(c.Alert.Threshold) || c.Alert.Threshold < 0 || c.Alert.Threshold > 100 {
		return fmt.Errorf("alert.threshold must be between 0 and 100, got %v", c.Alert.Threshold)
	}
	if math.IsNaN(c.Schedule.CriticalMargin) || c.Schedule.CriticalMargin < 0 {
		return fmt.Errorf("schedule.critical_margin cannot be negative, got %v", c.Schedule.CriticalMargin)
	}
	if !(c.Schedule.ElapsedDays >= 0) || !(c.Schedule.PlannedDays >= 0) {
		return fmt.Errorf("schedule days must be non-negative numbers")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.MaxReports <= 0 {
		return fmt.Errorf("server.max_reports must be positive, got %d", c.Server.MaxReports)
	}
	return nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig searches for a configuration file starting from the given path.
func FindConfig(startPath string) (string, error) {
	candidates := []string{
		".sitectl/config.yaml",
		"sitectl.yaml",
		"sitectl.yml",
	}

	// Search from start path upward
	dir := startPath
	for {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no sitectl configuration found")
}

// DatasetPath returns the resolved dataset path.
func (c *Config) DatasetPath(baseDir string) string {
	if filepath.IsAbs(c.Sitectl.Dataset) {
		return c.Sitectl.Dataset
	}
	return filepath.Join(baseDir, c.Sitectl.Dataset)
}

// GroupDescription returns the display description for a group.
func (c *Config) GroupDescription(group string) string {
	if desc, ok := c.Groups[group]; ok && desc != "" {
		return desc
	}
	return group
}

// ProjectRoot returns the directory a config file governs.
// ".sitectl/config.yaml" governs its parent's parent.
func ProjectRoot(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == ".sitectl" {
		return filepath.Dir(dir)
	}
	return dir
}
