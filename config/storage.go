package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where the persisted session record lives.
type SessionBackend string

const (
	// SessionBackendFile stores the record in a JSON file on local disk.
	SessionBackendFile SessionBackend = "file"
	// SessionBackendRedis stores the record in Redis.
	SessionBackendRedis SessionBackend = "redis"
	// SessionBackendMemory keeps the record in process memory (lost on restart).
	SessionBackendMemory SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis", "memory":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: file, redis, memory)", v)
	}
}

// SessionConfig controls the durable session store.
type SessionConfig struct {
	Backend SessionBackend `env:"BACKEND" envDefault:"file"`

	// FilePath is the session file used by the file backend.
	FilePath string `env:"FILE_PATH" envDefault:".medscan/session.json"`

	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"medscan:session:"`

	// EncryptionKey seals the bearer token at rest (32 bytes, raw or base64).
	// Leave empty to store the token as plain text.
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// SyncInterval is how often a running portal re-reads the store to pick up
	// logins and logouts made by medscan-admin. 0 disables it.
	SyncInterval time.Duration `env:"SYNC_INTERVAL" envDefault:"5s"`
}

// Sanitize restores defaults for blank values.
func (c *SessionConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = SessionBackendFile
	}
	if c.FilePath = strings.TrimSpace(c.FilePath); c.FilePath == "" {
		c.FilePath = ".medscan/session.json"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "medscan:session:"
	}
	if c.SyncInterval < 0 {
		c.SyncInterval = 0
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI          string `env:"URI"           envDefault:"localhost:6379"`
	Password     string `env:"PASSWORD"      envDefault:""`
	DB           int    `env:"DB"            envDefault:"0"`
	SentinelMode bool   `env:"USE_SENTINEL"  envDefault:"false"`
	// SentinelNodes and SentinelMasterName are only used when SentinelMode is set.
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
}
