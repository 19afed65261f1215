package data

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscan/portal/internal/adapters/memory"
	"github.com/medscan/portal/internal/data/cryptoutil"
	domainauth "github.com/medscan/portal/internal/domain/auth"
	apperrors "github.com/medscan/portal/internal/errors"
)

func newRepo(t *testing.T, cfg SessionRepoConfig) (*SessionRepo, *memory.KVStore) {
	t.Helper()
	kv := memory.NewKVStore()
	repo, err := NewSessionRepo(kv, cfg)
	require.NoError(t, err)
	return repo, kv
}

func fullRecord() domainauth.PersistedRecord {
	return domainauth.PersistedRecord{
		Auth:     domainauth.AuthFlagTrue,
		UserName: `{"userName":"bob","role":"Doctor"}`,
		Role:     "Doctor",
		Token:    "tok-123",
	}
}

func TestNewSessionRepo_RequiresStore(t *testing.T) {
	_, err := NewSessionRepo(nil, SessionRepoConfig{})
	assert.Error(t, err)
}

func TestSessionRepo_SaveLoadClear(t *testing.T) {
	repo, kv := newRepo(t, SessionRepoConfig{})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, fullRecord()))
	assert.Len(t, kv.Snapshot(), 4)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, fullRecord(), got)

	require.NoError(t, repo.Clear(ctx))
	assert.Empty(t, kv.Snapshot())

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestSessionRepo_SaveWithoutTokenDeletesKey(t *testing.T) {
	repo, kv := newRepo(t, SessionRepoConfig{})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, fullRecord()))
	rec := fullRecord()
	rec.Token = ""
	require.NoError(t, repo.Save(ctx, rec))

	_, hasToken := kv.Snapshot()[domainauth.KeyToken]
	assert.False(t, hasToken)
}

func TestSessionRepo_LoadReturnsMalformedValuesAsIs(t *testing.T) {
	repo, _ := newRepo(t, SessionRepoConfig{})
	ctx := context.Background()

	rec := domainauth.PersistedRecord{Auth: "true", UserName: `{"broken`}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestSessionRepo_SealsToken(t *testing.T) {
	key := []byte(strings.Repeat("k", 32))
	sealer, err := cryptoutil.NewAESGCMSealer(key)
	require.NoError(t, err)
	repo, kv := newRepo(t, SessionRepoConfig{Sealer: sealer})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, fullRecord()))
	stored := kv.Snapshot()[domainauth.KeyToken]
	assert.True(t, cryptoutil.IsSealed(stored))
	assert.NotContains(t, stored, "tok-123")

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got.Token)

	// the same data read without the key drops the token but keeps the rest
	plain, err := NewSessionRepo(kv, SessionRepoConfig{})
	require.NoError(t, err)
	got, err = plain.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Token)
	assert.Equal(t, "Doctor", got.Role)
}

func TestSessionRepo_StorageErrors(t *testing.T) {
	repo, kv := newRepo(t, SessionRepoConfig{})
	ctx := context.Background()
	boom := errors.New("disk on fire")

	kv.FailNextGet(boom)
	_, err := repo.Load(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))
	assert.ErrorIs(t, err, boom)

	kv.FailNextCommit(boom)
	err = repo.Save(ctx, fullRecord())
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))
	assert.Empty(t, kv.Snapshot())

	require.NoError(t, repo.Save(ctx, fullRecord()))
	kv.FailNextCommit(apperrors.Wrap(boom, apperrors.ErrCodeStorageCorruption, "bad file"))
	err = repo.Clear(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStorageCorruption))
	assert.Len(t, kv.Snapshot(), 4, "failed clear must leave every key")
}
