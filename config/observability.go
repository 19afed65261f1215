package config

import (
	"log/slog"
	"strings"
)

// ObservabilityConfig groups logging and tracing settings.
type ObservabilityConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ServiceName labels traces emitted by the API client.
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"medscan-portal"`
}

// Sanitize normalises the level and falls back to info for unknown values.
func (c *ObservabilityConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
	if strings.TrimSpace(c.ServiceName) == "" {
		c.ServiceName = "medscan-portal"
	}
}

// SlogLevel maps LogLevel onto slog.
func (c ObservabilityConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
