// Package config holds run configuration for the figure pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MaxConfigFileSize caps config files at 1 MB to avoid loading arbitrary data.
const MaxConfigFileSize = 1 << 20

// DefaultMinReversalDuration is the reporting threshold in seconds: a
// reversal shorter than this is drawn on the trajectory but kept out of the
// time-series table and close-up qualification.
const DefaultMinReversalDuration = 3.0

// DefaultMaxWorkers bounds the track worker pool.
const DefaultMaxWorkers = 4

// Config is the root configuration for a figure-generation run. Fields are
// pointers so a partial JSON file only overrides what it names; accessors
// apply the defaults.
type Config struct {
	// Workers overrides the worker pool bound (default min(4, tracks)).
	Workers *int `json:"workers,omitempty"`

	// MinReversalDurationSecs overrides the reversal reporting threshold.
	MinReversalDurationSecs *float64 `json:"min_reversal_duration_secs,omitempty"`

	// SummaryChart toggles the HTML reversal-count chart (default true).
	SummaryChart *bool `json:"summary_chart,omitempty"`
}

// Default returns a Config with no overrides set.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. The file must have a .json extension
// and be under MaxConfigFileSize. Fields omitted from the file retain their
// defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > MaxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes", info.Size())
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// WorkerCount returns the worker pool size for the given track count:
// min(DefaultMaxWorkers, tracks) unless overridden, never below 1.
func (c *Config) WorkerCount(tracks int) int {
	limit := DefaultMaxWorkers
	if c != nil && c.Workers != nil && *c.Workers > 0 {
		limit = *c.Workers
	}
	if tracks < limit {
		limit = tracks
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// MinReversalDuration returns the qualification threshold in seconds.
func (c *Config) MinReversalDuration() float64 {
	if c != nil && c.MinReversalDurationSecs != nil {
		return *c.MinReversalDurationSecs
	}
	return DefaultMinReversalDuration
}

// ChartEnabled reports whether the HTML summary chart should be written.
func (c *Config) ChartEnabled() bool {
	if c != nil && c.SummaryChart != nil {
		return *c.SummaryChart
	}
	return true
}
