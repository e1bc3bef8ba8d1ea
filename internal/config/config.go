// Package config loads and validates the service configuration at startup.
// Fail-fast: a missing required value or a malformed number is an error and
// the process exits.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the sourcing service.
type Config struct {
	Port              string `mapstructure:"SOURCING_PORT"`
	GRPCPort          string `mapstructure:"SOURCING_GRPC_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32  `mapstructure:"DB_MAX_CONNS"`
	RedisURL          string `mapstructure:"REDIS_URL"`
	BackendURL        string `mapstructure:"BACKEND_URL"`
	BackendTimeoutSec int    `mapstructure:"BACKEND_TIMEOUT_SECONDS"`
	ScanTimeoutSec    int    `mapstructure:"SCAN_TIMEOUT_SECONDS"`
	CandidateLimit    int    `mapstructure:"CANDIDATE_LIMIT"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	IntervalHours     int    `mapstructure:"SAVED_SEARCH_INTERVAL_HOURS"`
	KeywordCatalog    string `mapstructure:"KEYWORD_CATALOG_PATH"`
	SenderName        string `mapstructure:"SENDER_NAME"`
	SenderTitle       string `mapstructure:"SENDER_TITLE"`
	SenderCompany     string `mapstructure:"SENDER_COMPANY"`
	SenderTopic       string `mapstructure:"SENDER_TOPIC"`
	DefaultLanguage   string `mapstructure:"DEFAULT_LANGUAGE"`
}

var defaults = map[string]any{
	"SOURCING_PORT":               "8083",
	"SOURCING_GRPC_PORT":          "9083",
	"DB_MAX_CONNS":                10,
	"BACKEND_URL":                 "http://localhost:8001",
	"BACKEND_TIMEOUT_SECONDS":     30,
	"SCAN_TIMEOUT_SECONDS":        300,
	"CANDIDATE_LIMIT":             100,
	"LOG_LEVEL":                   "info",
	"SAVED_SEARCH_INTERVAL_HOURS": 24,
	"KEYWORD_CATALOG_PATH":        "",
	"SENDER_NAME":                 "",
	"SENDER_TITLE":                "Recruiter",
	"SENDER_COMPANY":              "",
	"SENDER_TOPIC":                "",
	"DEFAULT_LANGUAGE":            "en",
	"DATABASE_URL":                "",
	"REDIS_URL":                   "",
}

// Load reads configuration from the environment, optionally layered over a
// sourcing.yaml found in the working directory or ./configs.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("sourcing")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.IntervalHours < 1 {
		return fmt.Errorf("SAVED_SEARCH_INTERVAL_HOURS must be a positive integer, got %d", c.IntervalHours)
	}
	if c.BackendTimeoutSec < 1 {
		return fmt.Errorf("BACKEND_TIMEOUT_SECONDS must be positive, got %d", c.BackendTimeoutSec)
	}
	if c.ScanTimeoutSec < 1 {
		return fmt.Errorf("SCAN_TIMEOUT_SECONDS must be positive, got %d", c.ScanTimeoutSec)
	}
	if c.CandidateLimit < 1 {
		return fmt.Errorf("CANDIDATE_LIMIT must be positive, got %d", c.CandidateLimit)
	}
	if c.DefaultLanguage != "en" && c.DefaultLanguage != "kr" {
		return fmt.Errorf("DEFAULT_LANGUAGE must be en or kr, got %q", c.DefaultLanguage)
	}
	return nil
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSec) * time.Second
}

func (c *Config) ScanTimeout() time.Duration {
	return time.Duration(c.ScanTimeoutSec) * time.Second
}
