package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/ports"
	"github.com/medscan/portal/internal/testutil"
)

func TestNewKVStore_RequiresClient(t *testing.T) {
	_, err := NewKVStore(KVStoreOptions{})
	assert.Error(t, err)
}

func TestKVStore_CommitAndGetMany(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store, err := NewKVStore(KVStoreOptions{Client: client, Prefix: "test:"})
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Commit(ctx, ports.KVBatch{Set: map[string]string{"auth": "true", "userRole": "Doctor"}})
	require.NoError(t, err)

	got, err := mr.Get("test:auth")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	vals, err := store.GetMany(ctx, "auth", "userRole", "token")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"auth": "true", "userRole": "Doctor"}, vals)
}

func TestKVStore_CommitDeletes(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store, err := NewKVStore(KVStoreOptions{Client: client, Prefix: "p:"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, mr.Set("p:auth", "true"))
	require.NoError(t, mr.Set("p:token", "abc"))
	require.NoError(t, mr.Set("other", "keep"))

	require.NoError(t, store.Commit(ctx, ports.KVBatch{
		Set:    map[string]string{"userName": `"alice"`},
		Delete: []string{"auth", "token"},
	}))

	assert.False(t, mr.Exists("p:auth"))
	assert.False(t, mr.Exists("p:token"))
	assert.True(t, mr.Exists("p:userName"))
	assert.True(t, mr.Exists("other"))
}

func TestKVStore_TTL(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store, err := NewKVStore(KVStoreOptions{Client: client, TTL: time.Hour})
	require.NoError(t, err)

	require.NoError(t, store.Commit(context.Background(), ports.KVBatch{Set: map[string]string{"auth": "true"}}))
	assert.Equal(t, time.Hour, mr.TTL("session:auth"))
}

func TestKVStore_EmptyBatchIsNoop(t *testing.T) {
	_, client := testutil.SetupTestRedis(t)
	store, err := NewKVStore(KVStoreOptions{Client: client})
	require.NoError(t, err)
	assert.NoError(t, store.Commit(context.Background(), ports.KVBatch{}))

	vals, err := store.GetMany(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestKVStore_StorageErrors(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store, err := NewKVStore(KVStoreOptions{Client: client})
	require.NoError(t, err)
	mr.Close()

	ctx := context.Background()
	_, err = store.GetMany(ctx, "auth")
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))

	err = store.Commit(ctx, ports.KVBatch{Set: map[string]string{"auth": "true"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))
}
