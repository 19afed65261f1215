package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/medscan/portal/config"
)

const shutdownWaitTimeout = 15 * time.Second

// ServiceOrchestrationConfig contains what RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// backgroundService describes one long-running task.
type backgroundService struct {
	mode  config.ServiceMode // empty means always on
	name  string
	start func(context.Context) error
}

func buildBackgroundServices(svcs ServiceContainer) []backgroundService {
	return []backgroundService{
		{
			name: "session hydration",
			start: func(ctx context.Context) error {
				svcs.Session.Hydrate(ctx)
				return nil
			},
		},
		{
			name:  "session sync",
			start: svcs.Session.RunSync,
		},
		{
			name:  "scan result janitor",
			start: svcs.Scans.Run,
		},
		{
			mode:  config.ServiceModeNotifications,
			name:  "notification poller",
			start: svcs.Notifications.Run,
		},
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunServices(ctx, cfg)
}

// RunServices runs the enabled services until ctx ends or one of them fails,
// then stops the rest and disposes the session.
func RunServices(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if err := validateOrchestration(cfg); err != nil {
		return err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defer cfg.Services.Session.Dispose()

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	var srv *http.Server
	if enabled[config.ServiceModeHTTP] {
		srv, err = NewHTTPServer(&HTTPServerConfig{Config: cfg.Config, Services: cfg.Services, Logger: logger})
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, svc := range buildBackgroundServices(cfg.Services) {
		if svc.mode != "" && !enabled[svc.mode] {
			continue
		}
		g.Go(func() error {
			logger.InfoContext(gctx, "background service started", "service", svc.name)
			if err := svc.start(gctx); err != nil {
				return fmt.Errorf("%s failed: %w", svc.name, err)
			}
			return nil
		})
	}

	if srv != nil {
		g.Go(func() error { return serveHTTP(srv, logger) })
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(ShutdownConfig{
				Context: context.WithoutCancel(gctx),
				Server:  srv,
				Logger:  logger,
			})
		})
	}

	return waitForShutdown(ctx, g, logger)
}

func validateOrchestration(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	s := cfg.Services
	if s.Session == nil || s.Scans == nil || s.Notifications == nil {
		return errors.New("service orchestration config missing services")
	}
	return nil
}

// waitForShutdown waits for every service to return. Once ctx ends the
// services get shutdownWaitTimeout to finish.
func waitForShutdown(ctx context.Context, g *errgroup.Group, logger *slog.Logger) error {
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("service error", "error", err)
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down services...")
	}

	select {
	case err := <-done:
		if err != nil {
			logger.Error("graceful stop failed", "error", err)
			return err
		}
		logger.Info("services stopped")
		return nil
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for services to stop")
		return errors.New("timeout waiting for services to stop")
	}
}
