// Package config loads and validates application configuration from
// environment variables (SOCIALLENS_ prefix) layered over an optional YAML
// file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for all environment variables.
const envPrefix = "SOCIALLENS"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Workbook  WorkbookConfig  `yaml:"workbook" envconfig:"WORKBOOK"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// WorkbookConfig describes where the analytics workbook comes from.
type WorkbookConfig struct {
	// Kind selects the source implementation: "sheets" (Google Sheets API)
	// or "excel" (a local xlsx written by the scrapers).
	Kind string `yaml:"kind" envconfig:"KIND" default:"excel"`
	// SourceID is the spreadsheet id for the sheets kind, or the file path
	// for the excel kind.
	SourceID string `yaml:"source_id" envconfig:"SOURCE_ID" default:"tiktok_analytics_tracker.xlsx"`
	// APIKey authorizes Google Sheets reads. Unused by the excel kind.
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`
	// Sheets API quota guard: requests per second and burst.
	RateLimitRPS   float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"1"`
	RateLimitBurst int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"5"`
}

// AnalyticsConfig contains knobs for the derived-series computations.
type AnalyticsConfig struct {
	// SmoothingWindowDays is the default trendline window, adjustable per
	// request in whole days with a floor of one day.
	SmoothingWindowDays int `yaml:"smoothing_window_days" envconfig:"SMOOTHING_WINDOW_DAYS" default:"7"`
}

// Load loads configuration from an optional YAML file with environment
// variables layered on top (environment wins).
func Load() (*Config, error) {
	return LoadFromFile(os.Getenv(envPrefix + "_CONFIG_FILE"))
}

// LoadFromFile loads configuration from the given YAML file path (may be
// empty) with environment variables layered on top.
func LoadFromFile(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	switch c.Workbook.Kind {
	case "sheets", "excel":
	default:
		return fmt.Errorf("invalid workbook kind: %s", c.Workbook.Kind)
	}

	if c.Workbook.Kind == "sheets" && c.Workbook.APIKey == "" {
		return fmt.Errorf("workbook kind %q requires an API key", c.Workbook.Kind)
	}

	if c.Workbook.SourceID == "" {
		return fmt.Errorf("workbook source id is required")
	}

	if c.Analytics.SmoothingWindowDays < 1 {
		return fmt.Errorf("smoothing window must be at least 1 day, got %d", c.Analytics.SmoothingWindowDays)
	}

	return nil
}
