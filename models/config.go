// Package models defines the data structures shared across the pipeline.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the watch loop and analyzer.
// All fields have working defaults; a missing config file is not an error
// for callers that pass flags instead.
type Config struct {
	// URLs analyzed by the batch command.
	URLs []string `yaml:"urls"`

	// WorkerCount bounds concurrent fetches in batch mode.
	WorkerCount int `yaml:"workers"`

	// IntervalSeconds is the watch-loop cadence between analysis cycles.
	IntervalSeconds int `yaml:"interval_seconds"`

	// StartupDelaySeconds delays the first cycle after the watch loop starts,
	// mirroring the shortly-after-page-load trigger.
	StartupDelaySeconds int `yaml:"startup_delay_seconds"`

	// ShareRawText is the privacy opt-in. False keeps raw text and structured
	// data out of every emitted record.
	ShareRawText bool `yaml:"share_raw_text"`

	// TextBudget overrides the extracted-text character cap.
	TextBudget int `yaml:"text_budget"`

	// HistoryPath is the SQLite file the watch loop records results into.
	// Empty disables recording.
	HistoryPath string `yaml:"history_path"`

	// AdapterRules is an optional YAML file with extra site adapter rules,
	// appended after the built-ins.
	AdapterRules string `yaml:"adapter_rules"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig reads a YAML config file and applies defaults for any field
// left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = 30
	}
	if c.StartupDelaySeconds <= 0 {
		c.StartupDelaySeconds = 2
	}
	if c.TextBudget <= 0 {
		c.TextBudget = MaxTextChars
	}
}

// Interval returns the watch cadence as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// StartupDelay returns the delay before the first watch cycle.
func (c *Config) StartupDelay() time.Duration {
	return time.Duration(c.StartupDelaySeconds) * time.Second
}
