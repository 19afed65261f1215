package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/medscan/portal/config"
	"github.com/medscan/portal/internal/adapters/medscanapi"
	"github.com/medscan/portal/internal/observability/metrics"
	"github.com/medscan/portal/internal/ports"
	"github.com/medscan/portal/internal/service"
)

// ServiceContainer holds every long-lived portal service.
type ServiceContainer struct {
	Session       *service.SessionService
	Auth          *service.AuthService
	Appointments  *service.AppointmentService
	Directory     *service.DirectoryService
	Scans         *service.ScanService
	Notifications *service.NotificationService

	API           *medscanapi.Client
	Observability ObservabilityContainer
}

// ObservabilityContainer holds the metrics registry and the portal's instruments.
type ObservabilityContainer struct {
	Registry *prometheus.Registry
	Metrics  *metrics.Portal
}

// ServiceDeps contains dependencies for creating services.
type ServiceDeps struct {
	Config *config.AppConfig
	Store  ports.SessionStore
	Logger *slog.Logger
	// HTTPClient overrides the API client's transport (tests).
	HTTPClient *http.Client
}

func buildObservability() ObservabilityContainer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return ObservabilityContainer{Registry: reg, Metrics: metrics.New(reg)}
}

// NewServices wires the session, the API client and the services layered on them.
// The session starts loading; RunServicesWithShutdown hydrates it.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	if deps.Store == nil {
		return ServiceContainer{}, errors.New("session store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	obs := buildObservability()

	session := service.NewSessionService(service.SessionServiceOptions{
		Store:  deps.Store,
		Logger: logger,
		Config: service.SessionServiceConfig{
			Metrics:      obs.Metrics,
			SyncInterval: sessionSyncInterval(cfg.Session),
		},
	})

	api, err := medscanapi.NewClient(medscanapi.Config{
		BaseURL:    cfg.API.BaseURL,
		ScanURL:    cfg.API.ScanURL,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
		Tokens:     session,
		Metrics:    obs.Metrics,
		Logger:     logger,
		HTTPClient: deps.HTTPClient,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create medscan api client: %w", err)
	}

	return ServiceContainer{
		Session: session,
		Auth: service.NewAuthService(service.AuthServiceOptions{
			API:     api,
			Session: session,
			Logger:  logger,
		}),
		Appointments: service.NewAppointmentService(service.AppointmentServiceOptions{
			API:    api,
			Logger: logger,
		}),
		Directory: service.NewDirectoryService(service.DirectoryServiceOptions{
			Doctors: api,
			Profile: api,
			Clinic:  api,
		}),
		Scans: service.NewScanService(service.ScanServiceOptions{
			API:     api,
			Session: session,
			Logger:  logger,
		}),
		Notifications: service.NewNotificationService(service.NotificationServiceOptions{
			Deps:   service.NotificationDeps{API: api, Session: session},
			Logger: logger,
			Config: service.NotificationServiceConfig{
				Interval:   cfg.Notifications.Interval,
				MaxBackoff: cfg.Notifications.MaxBackoff,
				Metrics:    obs.Metrics,
			},
		}),
		API:           api,
		Observability: obs,
	}, nil
}

// sessionSyncInterval is zero for the memory backend, which no other process can write.
func sessionSyncInterval(cfg config.SessionConfig) time.Duration {
	if cfg.Backend == config.SessionBackendMemory {
		return 0
	}
	return cfg.SyncInterval
}
