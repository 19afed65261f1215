package redis

// Package redis provides the Redis-backed key/value store for the portal session.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/ports"
)

// KVStore keeps string values under a common key prefix.
// Commit runs inside MULTI/EXEC so a batch lands entirely or not at all.
type KVStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// KVStoreOptions configures a KVStore.
type KVStoreOptions struct {
	Client redis.UniversalClient
	Prefix string
	// TTL, when positive, is applied to every written key.
	TTL time.Duration
}

var _ ports.KeyValueStore = (*KVStore)(nil)

// NewKVStore creates a Redis key/value store.
func NewKVStore(opts KVStoreOptions) (*KVStore, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	return &KVStore{client: opts.Client, prefix: prefix, ttl: opts.TTL}, nil
}

// GetMany reads keys with a single MGET.
func (s *KVStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}

	vals, err := s.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "redis mget")
	}

	for i, v := range vals {
		switch val := v.(type) {
		case nil:
		case string:
			out[keys[i]] = val
		default:
			out[keys[i]] = fmt.Sprint(val)
		}
	}
	return out, nil
}

// Commit applies the batch in one transaction.
func (s *KVStore) Commit(ctx context.Context, batch ports.KVBatch) error {
	if batch.Empty() {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range batch.Set {
			pipe.Set(ctx, s.prefix+k, v, s.ttl)
		}
		if len(batch.Delete) > 0 {
			del := make([]string, len(batch.Delete))
			for i, k := range batch.Delete {
				del[i] = s.prefix + k
			}
			pipe.Del(ctx, del...)
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "redis commit")
	}
	return nil
}
