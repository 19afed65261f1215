package data

import (
	"context"
	"errors"
	"log/slog"

	"github.com/medscan/portal/internal/data/cryptoutil"
	domainauth "github.com/medscan/portal/internal/domain/auth"
	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/ports"
)

// SessionRepoConfig configures SessionRepo.
type SessionRepoConfig struct {
	// Sealer protects the token at rest. Defaults to PlainSealer.
	Sealer cryptoutil.Sealer
	Logger *slog.Logger
}

// SessionRepo is the persisted session store: four keys in a KeyValueStore,
// always written and removed in a single commit.
type SessionRepo struct {
	kv     ports.KeyValueStore
	sealer cryptoutil.Sealer
	logger *slog.Logger
}

var _ ports.SessionStore = (*SessionRepo)(nil)

// NewSessionRepo creates a SessionRepo over kv.
func NewSessionRepo(kv ports.KeyValueStore, cfg SessionRepoConfig) (*SessionRepo, error) {
	if kv == nil {
		return nil, errors.New("key/value store is required")
	}
	sealer := cfg.Sealer
	if sealer == nil {
		sealer = cryptoutil.PlainSealer{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRepo{kv: kv, sealer: sealer, logger: logger.With("component", "session_repo")}, nil
}

// Load returns the keys that exist. Values are not interpreted; a token that cannot be
// unsealed is dropped from the record rather than failing the load.
func (r *SessionRepo) Load(ctx context.Context) (domainauth.PersistedRecord, error) {
	vals, err := r.kv.GetMany(ctx, domainauth.RecordKeys()...)
	if err != nil {
		return domainauth.PersistedRecord{}, apperrors.Wrapf(err, storageCode(err), "load session")
	}

	rec := domainauth.RecordFromValues(vals)
	if rec.Token != "" {
		token, openErr := r.sealer.Open(rec.Token)
		if openErr != nil {
			r.logger.WarnContext(ctx, "stored token could not be unsealed; ignoring it", "error", openErr)
			token = ""
		}
		rec.Token = token
	}
	return rec, nil
}

// Save writes rec in one commit. Blank fields remove their keys.
func (r *SessionRepo) Save(ctx context.Context, rec domainauth.PersistedRecord) error {
	if rec.Token != "" {
		sealed, err := r.sealer.Seal(rec.Token)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeStorage, "seal token")
		}
		rec.Token = sealed
	}

	set, del := rec.Values()
	if err := r.kv.Commit(ctx, ports.KVBatch{Set: set, Delete: del}); err != nil {
		return apperrors.Wrapf(err, storageCode(err), "save session")
	}
	return nil
}

// Clear removes all four keys in one commit.
func (r *SessionRepo) Clear(ctx context.Context) error {
	if err := r.kv.Commit(ctx, ports.KVBatch{Delete: domainauth.RecordKeys()}); err != nil {
		return apperrors.Wrapf(err, storageCode(err), "clear session")
	}
	return nil
}

// storageCode keeps a more specific storage code from the adapter, defaulting to ErrCodeStorage.
func storageCode(err error) apperrors.ErrorCode {
	switch code := apperrors.GetCode(err); code {
	case apperrors.ErrCodeStorageCorruption, apperrors.ErrCodeCanceled, apperrors.ErrCodeTimeout:
		return code
	default:
		if errors.Is(err, context.Canceled) {
			return apperrors.ErrCodeCanceled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.ErrCodeTimeout
		}
		return apperrors.ErrCodeStorage
	}
}
