package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.PerformanceTracking)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "pretty")
	t.Setenv("PERFORMANCE_TRACKING", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.True(t, cfg.PerformanceTracking)
}

func TestLoadConfigRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigRejectsInvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoggingConfig(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFormat: "pretty"}

	logCfg := cfg.LoggingConfig()
	assert.Equal(t, "warn", logCfg.Level)
	assert.True(t, logCfg.Pretty)
}
