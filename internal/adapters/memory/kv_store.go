// Package memory provides an in-process key/value store.
// It is used for tests and for deployments that accept losing the session on restart.
package memory

import (
	"context"
	"sync"

	"github.com/medscan/portal/internal/ports"
)

// KVStore is a mutex-guarded map. FailNextGet and FailNextCommit let tests inject storage failures.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]string

	// failGet and failCommit, when set, are returned by the next matching call.
	failGet    error
	failCommit error
}

var _ ports.KeyValueStore = (*KVStore)(nil)

// NewKVStore returns an empty store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

// GetMany returns the present keys.
func (s *KVStore) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failGet; err != nil {
		s.failGet = nil
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Commit applies the batch under one lock.
func (s *KVStore) Commit(_ context.Context, batch ports.KVBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failCommit; err != nil {
		s.failCommit = nil
		return err
	}
	for k, v := range batch.Set {
		s.data[k] = v
	}
	for _, k := range batch.Delete {
		delete(s.data, k)
	}
	return nil
}

// FailNextGet makes the next GetMany return err.
func (s *KVStore) FailNextGet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = err
}

// FailNextCommit makes the next Commit return err without applying anything.
func (s *KVStore) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// Snapshot returns a copy of every stored pair.
func (s *KVStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
