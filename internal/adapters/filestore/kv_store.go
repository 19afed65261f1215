// Package filestore keeps the portal's key/value data in a single JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/ports"
)

// KVStore persists a flat string map as JSON.
// Commit writes a temp file in the same directory and renames it over the original,
// so readers see the old file or the new one and never a partial write.
type KVStore struct {
	path string
	mu   sync.Mutex
}

var _ ports.KeyValueStore = (*KVStore)(nil)

// NewKVStore creates the parent directory if needed. The file itself is created on first commit.
func NewKVStore(path string) (*KVStore, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeStorage, "create session dir for %s", path)
	}
	return &KVStore{path: path}, nil
}

// Path returns the backing file.
func (s *KVStore) Path() string { return s.path }

// GetMany reads the file and returns the requested keys that exist.
func (s *KVStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Commit applies batch to the current contents and replaces the file.
// A corrupt file is replaced outright rather than blocking every future write.
func (s *KVStore) Commit(ctx context.Context, batch ports.KVBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if batch.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		if !apperrors.IsCode(err, apperrors.ErrCodeStorageCorruption) {
			return err
		}
		all = map[string]string{}
	}

	for k, v := range batch.Set {
		all[k] = v
	}
	for _, k := range batch.Delete {
		delete(all, k)
	}

	return s.write(all)
}

func (s *KVStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeStorage, "read %s", s.path)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	all := map[string]string{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeStorageCorruption, "decode %s", s.path)
	}
	return all, nil
}

func (s *KVStore) write(all map[string]string) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "encode session file")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "create temp file")
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "close temp file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "chmod temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, fmt.Sprintf("replace %s", s.path))
	}
	return nil
}
