package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"quantfold/dataset"
)

// Config carries the report command's settings beyond its flags. Values
// load in three layers: struct defaults, QF_* environment variables,
// then the YAML file passed with -config.
type Config struct {
	Library LibraryConfig `yaml:"library" envconfig:"LIBRARY"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// LibraryConfig tunes the data library client.
type LibraryConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	MaxRetries        int           `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"3" validate:"min=0,max=10"`
	RetryDelay        time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY" default:"500ms"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" default:"2" validate:"gt=0"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// ReportConfig sizes the rendered charts.
type ReportConfig struct {
	ChartWidth  int `yaml:"chart_width" envconfig:"CHART_WIDTH" default:"1000" validate:"min=320,max=4000"`
	ChartHeight int `yaml:"chart_height" envconfig:"CHART_HEIGHT" default:"600" validate:"min=240,max=4000"`
}

// LoadConfig builds the command configuration. Environment variables use
// the QF prefix (QF_LOGGING_LEVEL, QF_LIBRARY_MAX_RETRIES, ...).
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("QF", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// clientConfig maps the library section onto the dataset client.
func (c LibraryConfig) clientConfig() dataset.Config {
	return dataset.Config{
		BaseURL:           c.BaseURL,
		HTTPClient:        &http.Client{Timeout: c.Timeout},
		MaxRetries:        c.MaxRetries,
		RetryDelay:        c.RetryDelay,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// newLogger builds the process logger from the logging config.
func newLogger(cfg LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
