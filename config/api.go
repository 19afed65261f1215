package config

import (
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "https://medscanapi.runasp.net/api"
	defaultScanURL    = "https://web-production-9bb3.up.railway.app/scan"
	defaultAPITimeout = 15 * time.Second
)

// APIConfig points the portal at the remote MedScan REST API and the scan inference service.
type APIConfig struct {
	// BaseURL is the root of the REST API; paths such as /Auth/login are appended to it.
	BaseURL string `env:"API_BASE_URL" envDefault:"https://medscanapi.runasp.net/api"`

	// ScanURL is the full URL of the image scan endpoint.
	ScanURL string `env:"SCAN_URL" envDefault:"https://web-production-9bb3.up.railway.app/scan"`

	// Timeout bounds every remote call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// UserAgent is sent on every request.
	UserAgent string `env:"API_USER_AGENT" envDefault:"medscan-portal"`
}

// Sanitize trims URLs and restores defaults for empty or non-positive values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultAPIBaseURL
	}
	c.ScanURL = strings.TrimSpace(c.ScanURL)
	if c.ScanURL == "" {
		c.ScanURL = defaultScanURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = "medscan-portal"
	}
}
