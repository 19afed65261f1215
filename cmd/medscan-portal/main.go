package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/medscan/portal/config"
	"github.com/medscan/portal/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	bootstrap.ApplyLogLevel(&cfg)

	// Log startup info
	logStartupInfo(ctx, logger, &cfg)

	cfgPtr := &cfg

	// Validate configuration
	if err = bootstrap.ValidateServiceConfig(cfgPtr); err != nil {
		return err
	}

	// Open the session store
	storage, err := bootstrap.OpenSessionStorage(ctx, bootstrap.StorageConfig{
		Session: cfg.Session,
		Redis:   cfg.Redis,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close session storage failed", "error", cerr)
		}
	}()

	// Initialize and run services
	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: cfgPtr,
		Store:  storage.Repo,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   cfgPtr,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	enabledServices := bootstrap.GetEnabledServices(cfg)
	logger.InfoContext(ctx, "starting medscan portal",
		"api_base_url", cfg.API.BaseURL,
		"session_backend", cfg.Session.Backend,
		"http_addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"enabled_services", enabledServices)
}
