package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	portal "github.com/medscan/portal"
	"github.com/medscan/portal/config"
	httpx "github.com/medscan/portal/internal/http"
)

const httpShutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the portal server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := buildHTTPHandler(appCfg, cfg.Services, logger)
	if err != nil {
		return nil, err
	}

	addr := appCfg.HTTP.Addr
	// An empty addr would make net/http listen on every interface.
	if addr == "" {
		addr = config.DefaultHTTPAddr
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}, nil
}

func buildHTTPHandler(cfg *config.AppConfig, svcs ServiceContainer, logger *slog.Logger) (http.Handler, error) {
	templates, err := fs.Sub(portal.TemplateFS, "web/templates")
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}

	var metricsHandler http.Handler
	if cfg.HTTP.MetricsEnabled && svcs.Observability.Registry != nil {
		metricsHandler = promhttp.HandlerFor(svcs.Observability.Registry, promhttp.HandlerOpts{})
	}

	services := httpx.RouterServices{
		Session:            svcs.Session,
		Accounts:           svcs.Auth,
		Appointments:       svcs.Appointments,
		Directory:          svcs.Directory,
		Scans:              svcs.Scans,
		TemplateFS:         templates,
		MetricsHandler:     metricsHandler,
		Metrics:            svcs.Observability.Metrics,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		IsDev:              cfg.IsDev,
		Logger:             logger,
	}
	// The notification API only exists when the poller keeps the cache fresh.
	if cfg.IsNotificationPollerEnabled() && svcs.Notifications != nil {
		services.Notifications = svcs.Notifications
	}

	router, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return router, nil
}

// serveHTTP runs srv until it is shut down. A clean shutdown returns nil.
func serveHTTP(srv *http.Server, logger *slog.Logger) error {
	logger.Info("starting HTTP server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(parent, httpShutdownTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
