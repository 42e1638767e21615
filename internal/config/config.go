// Package config provides configuration management for the scraper.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output.format must be 'ndjson' or 'text'")
	ErrMissingOutputDir    = errors.New("output.dir is required")
	ErrInvalidSleep        = errors.New("scrape.sleep_ms must be non-negative")
	ErrInvalidLimit        = errors.New("scrape.limit_posts must be non-negative")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Default settings used when no config file or flags override them.
var (
	DefaultSubreddits = []string{"hikingHungary", "RealHungary"}
	DefaultOutputDir  = "./reddit_dump"
)

// Output formats.
const (
	FormatNDJSON = "ndjson"
	FormatText   = "text"
)

// Config represents the complete scraper configuration.
type Config struct {
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Output  OutputConfig  `yaml:"output"`
	Retry   RetryPolicy   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScrapeConfig contains fetch-loop settings.
type ScrapeConfig struct {
	Subreddits      []string `yaml:"subreddits"`
	SubredditFile   string   `yaml:"subreddit_file"`
	After           string   `yaml:"after"`
	Before          string   `yaml:"before"`
	LimitPosts      int      `yaml:"limit_posts"`
	SleepMs         int      `yaml:"sleep_ms"`
	IncludeComments bool     `yaml:"include_comments"`
}

// OutputConfig defines where and how records are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a config with the built-in defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			Subreddits:      DefaultSubreddits,
			SleepMs:         500,
			IncludeComments: true,
		},
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			Format: FormatNDJSON,
		},
		Retry: RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if c.Output.Format != FormatNDJSON && c.Output.Format != FormatText {
		return ErrInvalidOutputFormat
	}

	if c.Scrape.SleepMs < 0 {
		return ErrInvalidSleep
	}

	if c.Scrape.LimitPosts < 0 {
		return ErrInvalidLimit
	}

	if err := c.Retry.Validate(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Subreddits: %d, Format: %s, Dir: %s}",
		len(c.Scrape.Subreddits),
		c.Output.Format,
		c.Output.Dir,
	)
}
