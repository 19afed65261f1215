package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.TokenSource  = StaticTokenSource("")
)

// MemorySessionStore keeps one record in memory.
// The Func fields, when set, replace the default behavior for that call.
type MemorySessionStore struct {
	LoadFunc  func(ctx context.Context) (domainauth.PersistedRecord, error)
	SaveFunc  func(ctx context.Context, rec domainauth.PersistedRecord) error
	ClearFunc func(ctx context.Context) error

	mu         sync.Mutex
	rec        domainauth.PersistedRecord
	loadCalls  int
	saveCalls  int
	clearCalls int
}

// NewMemorySessionStore returns a store pre-filled with rec.
func NewMemorySessionStore(rec domainauth.PersistedRecord) *MemorySessionStore {
	return &MemorySessionStore{rec: rec}
}

func (m *MemorySessionStore) Load(ctx context.Context) (domainauth.PersistedRecord, error) {
	m.mu.Lock()
	m.loadCalls++
	fn := m.LoadFunc
	rec := m.rec
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return rec, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, rec domainauth.PersistedRecord) error {
	m.mu.Lock()
	m.saveCalls++
	fn := m.SaveFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, rec); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	return nil
}

func (m *MemorySessionStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.clearCalls++
	fn := m.ClearFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = domainauth.PersistedRecord{}
	return nil
}

// Record returns the currently stored record.
func (m *MemorySessionStore) Record() domainauth.PersistedRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}

// Calls returns how many times Load, Save and Clear were invoked.
func (m *MemorySessionStore) Calls() (load, save, clear int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls, m.saveCalls, m.clearCalls
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

func (s StaticTokenSource) Token() string { return string(s) }
