// Package ports defines interfaces (hexagonal ports) for the portal.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/medscan/portal/internal/domain/auth"
)

// KVBatch is a set of writes applied together by KeyValueStore.Commit.
// A key must not appear in both Set and Delete.
type KVBatch struct {
	Set    map[string]string
	Delete []string
}

// Empty reports whether the batch has nothing to apply.
func (b KVBatch) Empty() bool { return len(b.Set) == 0 && len(b.Delete) == 0 }

// KeyValueStore is durable string storage that survives process restarts.
type KeyValueStore interface {
	// GetMany returns the present keys among keys. Absent keys are omitted, not errors.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)

	// Commit applies every set and delete in batch, or none of them.
	Commit(ctx context.Context, batch KVBatch) error
}

// SessionStore persists the single client session record.
type SessionStore interface {
	// Load returns whatever keys exist. Malformed content is returned as-is, never an error.
	Load(ctx context.Context) (domainauth.PersistedRecord, error)
	// Save replaces the record atomically.
	Save(ctx context.Context, rec domainauth.PersistedRecord) error
	// Clear removes every session key atomically.
	Clear(ctx context.Context) error
}

// TokenSource hands the current bearer token to outbound API calls.
// An empty token means the call goes out unauthenticated.
type TokenSource interface {
	Token() string
}
