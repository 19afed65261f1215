package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the portal HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeNotifications runs the notification poller bound to the session.
	ServiceModeNotifications ServiceMode = "notifications"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeNotifications,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeNotifications:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, notifications)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

const (
	defaultPollInterval = 30 * time.Second
	defaultMaxBackoff   = 5 * time.Minute
)

// NotificationsConfig controls the notification poll loop.
type NotificationsConfig struct {
	// Interval is the delay between successful polls.
	Interval time.Duration `env:"INTERVAL" envDefault:"30s"`

	// MaxBackoff caps the delay after repeated failures.
	MaxBackoff time.Duration `env:"MAX_BACKOFF" envDefault:"5m"`
}

// Sanitize clamps the interval and back-off to sane values.
func (c *NotificationsConfig) Sanitize() {
	if c.Interval <= 0 {
		c.Interval = defaultPollInterval
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.MaxBackoff < c.Interval {
		c.MaxBackoff = c.Interval
	}
}
