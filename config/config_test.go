package config

import (
	"log/slog"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - notifications",
			input:    "notifications",
			expected: map[ServiceMode]bool{ServiceModeNotifications: true},
		},
		{
			name:  "services with spaces and duplicates",
			input: " http , notifications , http ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:          true,
				ServiceModeNotifications: true,
			},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only commas", input: " , ,", expectError: true},
		{name: "invalid service", input: "http,billing", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	cfg := AppConfig{Services: "http"}
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.False(t, cfg.IsNotificationPollerEnabled())

	cfg.Services = "http,notifications"
	assert.True(t, cfg.IsNotificationPollerEnabled())

	cfg.Services = "bogus"
	assert.False(t, cfg.IsHTTPServerEnabled())
	assert.False(t, cfg.IsNotificationPollerEnabled())
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	assert.ElementsMatch(t, []ServiceMode{ServiceModeHTTP, ServiceModeNotifications}, modes)
	for _, m := range modes {
		_, err := ParseServices(string(m))
		assert.NoError(t, err, "mode %s should parse", m)
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "https://medscanapi.runasp.net/api", cfg.API.BaseURL)
	assert.Equal(t, "https://web-production-9bb3.up.railway.app/scan", cfg.API.ScanURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTP.Addr)
	assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
	assert.Equal(t, 5*time.Second, cfg.Session.SyncInterval)
	assert.Equal(t, 30*time.Second, cfg.Notifications.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Notifications.MaxBackoff)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.True(t, cfg.IsNotificationPollerEnabled())
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("MEDSCAN_API_BASE_URL", "http://localhost:5000/api/")
	t.Setenv("MEDSCAN_API_TIMEOUT", "3s")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_KEY_PREFIX", "test:")
	t.Setenv("REDIS_URI", "redis:6379")
	t.Setenv("NOTIFICATIONS_INTERVAL", "10s")
	t.Setenv("HTTP_CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("LOG_LEVEL", "DEBUG")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, "test:", cfg.Session.KeyPrefix)
	assert.Equal(t, "redis:6379", cfg.Redis.URI)
	assert.Equal(t, 10*time.Second, cfg.Notifications.Interval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.Observability.SlogLevel())
}

func TestSessionBackend_UnmarshalText(t *testing.T) {
	var b SessionBackend
	require.NoError(t, b.UnmarshalText([]byte("MEMORY")))
	assert.Equal(t, SessionBackendMemory, b)
	assert.Error(t, b.UnmarshalText([]byte("postgres")))
}

func TestNotificationsConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name     string
		in       NotificationsConfig
		interval time.Duration
		backoff  time.Duration
	}{
		{"zero values", NotificationsConfig{}, 30 * time.Second, 5 * time.Minute},
		{"negative interval", NotificationsConfig{Interval: -time.Second, MaxBackoff: time.Minute}, 30 * time.Second, time.Minute},
		{"backoff below interval", NotificationsConfig{Interval: time.Minute, MaxBackoff: time.Second}, time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Sanitize()
			assert.Equal(t, tt.interval, c.Interval)
			assert.Equal(t, tt.backoff, c.MaxBackoff)
		})
	}
}

func TestSessionConfig_SanitizeSyncInterval(t *testing.T) {
	c := SessionConfig{SyncInterval: -time.Second}
	c.Sanitize()
	assert.Zero(t, c.SyncInterval)
}

func TestHTTPConfig_SanitizeDefaultsToLoopback(t *testing.T) {
	var h HTTPConfig
	h.Sanitize()
	assert.Equal(t, "127.0.0.1:8080", h.Addr)

	h = HTTPConfig{Addr: "0.0.0.0:9000", CORSAllowedOrigins: []string{" https://a.example ", ""}}
	h.Sanitize()
	assert.Equal(t, "0.0.0.0:9000", h.Addr)
	assert.Equal(t, []string{"https://a.example"}, h.CORSAllowedOrigins)
}

func TestObservabilityConfig_Sanitize(t *testing.T) {
	c := ObservabilityConfig{LogLevel: "verbose"}
	c.Sanitize()
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
	assert.Equal(t, "medscan-portal", c.ServiceName)
}

func TestAPIConfig_Sanitize(t *testing.T) {
	c := APIConfig{BaseURL: "  ", ScanURL: "", Timeout: 0}
	c.Sanitize()
	assert.Equal(t, "https://medscanapi.runasp.net/api", c.BaseURL)
	assert.Equal(t, "https://web-production-9bb3.up.railway.app/scan", c.ScanURL)
	assert.Equal(t, 15*time.Second, c.Timeout)
}
