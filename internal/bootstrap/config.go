package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/medscan/portal/config"
)

// logLevel backs the default logger so the level can follow LOG_LEVEL once config is loaded.
var logLevel = new(slog.LevelVar)

// InitLogger installs a JSON logger on stdout as the default logger.
// It starts at info level; ApplyLogLevel adjusts it once config is loaded.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// ApplyLogLevel switches the logger created by InitLogger to the configured level.
func ApplyLogLevel(cfg *config.AppConfig) {
	if cfg == nil {
		return
	}
	logLevel.Set(cfg.Observability.SlogLevel())
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig checks the service list and the settings those services depend on.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}
	if len(services) == 0 {
		return errors.New("no services enabled")
	}

	if cfg.Session.Backend == config.SessionBackendRedis && !cfg.Redis.SentinelMode &&
		strings.TrimSpace(cfg.Redis.URI) == "" {
		return errors.New("REDIS_URI is required for the redis session backend")
	}
	return nil
}

// GetEnabledServices returns the enabled service names sorted, or an empty list
// when the configuration is invalid.
func GetEnabledServices(cfg *config.AppConfig) []string {
	names := []string{}
	if cfg == nil {
		return names
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		return names
	}
	for _, mode := range slices.Sorted(maps.Keys(services)) {
		names = append(names, string(mode))
	}
	return names
}
