package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medscan/portal/config"
	"github.com/medscan/portal/internal/adapters/filestore"
	"github.com/medscan/portal/internal/adapters/memory"
	redisadapter "github.com/medscan/portal/internal/adapters/redis"
	"github.com/medscan/portal/internal/data"
	"github.com/medscan/portal/internal/ports"
)

const redisPingTimeout = 5 * time.Second

// StorageConfig contains the settings needed to open the session store.
type StorageConfig struct {
	Session config.SessionConfig
	Redis   config.RedisConfig
	Logger  *slog.Logger
}

// SessionStorage is an opened session store plus the function that releases it.
type SessionStorage struct {
	Repo  *data.SessionRepo
	Close func() error
}

// OpenSessionStorage opens the configured key/value backend and layers the session repo on top.
func OpenSessionStorage(ctx context.Context, cfg StorageConfig) (SessionStorage, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sealer, err := CreateSealer(cfg.Session.EncryptionKey, logger)
	if err != nil {
		return SessionStorage{}, err
	}

	kv, closeKV, err := NewKeyValueStore(ctx, cfg)
	if err != nil {
		return SessionStorage{}, err
	}

	repo, err := data.NewSessionRepo(kv, data.SessionRepoConfig{Sealer: sealer, Logger: logger})
	if err != nil {
		return SessionStorage{}, errors.Join(err, closeKV())
	}
	return SessionStorage{Repo: repo, Close: closeKV}, nil
}

// NewKeyValueStore returns the backend selected by SESSION_BACKEND and a closer for it.
//
//nolint:ireturn // the backend is chosen at runtime.
func NewKeyValueStore(ctx context.Context, cfg StorageConfig) (ports.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		if cfg.Logger != nil {
			cfg.Logger.WarnContext(ctx, "session backend is memory; logins do not survive a restart")
		}
		return memory.NewKVStore(), noop, nil

	case config.SessionBackendRedis:
		client, err := ConnectRedis(ctx, cfg.Redis, cfg.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		kv, err := redisadapter.NewKVStore(redisadapter.KVStoreOptions{
			Client: client,
			Prefix: cfg.Session.KeyPrefix,
		})
		if err != nil {
			return nil, nil, errors.Join(err, client.Close())
		}
		return kv, client.Close, nil

	case config.SessionBackendFile, "":
		kv, err := filestore.NewKVStore(cfg.Session.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open session file: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.InfoContext(ctx, "session file store opened", "path", kv.Path())
		}
		return kv, noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported session backend %q", cfg.Session.Backend)
	}
}

// ConnectRedis connects to Redis directly or through Sentinel and verifies the connection.
//
//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	var (
		client   redis.UniversalClient
		addrDesc string
		err      error
	)

	if cfg.SentinelMode {
		client, addrDesc, err = newSentinelClient(cfg)
	} else {
		client, addrDesc, err = newDirectClient(cfg)
	}
	if err != nil {
		return nil, err
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if logger != nil {
		logger.InfoContext(ctx, "redis connected", "addr", redactAddr(addrDesc))
	}

	return client, nil
}

// redactAddr strips credentials from a redis URL or user:pass@host form.
func redactAddr(addrDesc string) string {
	if u, parseErr := url.Parse(addrDesc); parseErr == nil && u.User != nil {
		u.User = url.User("*")
		return u.Redacted()
	}
	if i := strings.LastIndex(addrDesc, "@"); i > -1 {
		return addrDesc[i+1:]
	}
	return addrDesc
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newSentinelClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	nodes := normalizeAddrs(cfg.SentinelNodes)
	if len(nodes) == 0 {
		return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
	}

	opts := &redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    nodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
		DB:               cfg.DB,
	}
	client := redis.NewFailoverClient(opts)
	return client, "sentinel:" + cfg.SentinelMasterName, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newDirectClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, "", errors.New("redis direct configuration requires a URI")
	}

	if isRedisURL(uri) {
		opt, err := redis.ParseURL(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), uri, nil
	}

	opts := &redis.Options{
		Addr:     uri,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	return redis.NewClient(opts), uri, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}
