package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Remote MedScan API and scan service
//   - http.go: Portal HTTP server configuration
//   - storage.go: Session storage backend configuration
//   - services.go: Service mode and notification poller configuration
//   - observability.go: Logging and metrics
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, permissive CORS).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Remote API configuration
	API APIConfig `envPrefix:"MEDSCAN_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Session storage configuration
	Session SessionConfig `envPrefix:"SESSION_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"http,notifications"`

	// Notification poller configuration
	Notifications NotificationsConfig `envPrefix:"NOTIFICATIONS_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Notifications.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsNotificationPollerEnabled returns true if the notification poller service is enabled.
func (c *AppConfig) IsNotificationPollerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeNotifications]
}
