package config

import "strings"

// DefaultHTTPAddr binds loopback only; other interfaces need an explicit HTTP_ADDR.
const DefaultHTTPAddr = "127.0.0.1:8080"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`

	// CORSAllowedOrigins enables CORS on /api/ routes for the listed origins.
	// Leave empty to disable CORS handling entirely.
	CORSAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envSeparator:","`

	// MetricsEnabled exposes Prometheus metrics at /metrics.
	MetricsEnabled bool `env:"HTTP_METRICS_ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if strings.TrimSpace(h.Addr) == "" {
		h.Addr = DefaultHTTPAddr
	}

	origins := h.CORSAllowedOrigins[:0]
	for _, o := range h.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	h.CORSAllowedOrigins = origins
}
