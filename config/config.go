// Package config loads runtime settings for applications embedding
// the order book engine.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/quantrian/limitbook/pkg/logging"
)

// Config holds runtime settings: logging and performance tracking.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is json or pretty.
	LogFormat string
	// PerformanceTracking enables the engine's operation tracker.
	PerformanceTracking bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PERFORMANCE_TRACKING", false)

	v.AutomaticEnv()

	cfg := &Config{
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		PerformanceTracking: v.GetBool("PERFORMANCE_TRACKING"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoggingConfig converts the loaded settings into a logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Pretty = c.LogFormat == "pretty"
	return cfg
}

func validateConfig(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "json", "pretty":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or pretty, got %q", cfg.LogFormat)
	}

	return nil
}
