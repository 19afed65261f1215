package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/mocks"
	mockauth "github.com/medscan/portal/internal/mocks/auth"
	"github.com/medscan/portal/internal/testutil"
)

var sessionTestNow = testutil.TestTime()

func newTestSession(t *testing.T, store *mockauth.MemorySessionStore) *SessionService {
	t.Helper()
	return NewSessionService(SessionServiceOptions{
		Store: store,
		Config: SessionServiceConfig{
			Now: testutil.FixedTimeFunc(sessionTestNow),
		},
	})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// subscriberCount lets tests wait until a Run loop has subscribed.
func (s *SessionService) subscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func requireReady(t *testing.T, svc *SessionService) {
	t.Helper()
	select {
	case <-svc.Ready():
	case <-time.After(time.Second):
		t.Fatal("session never became ready")
	}
}

func TestNewSessionService_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() { NewSessionService(SessionServiceOptions{}) })
}

func TestSessionService_StartsLoading(t *testing.T) {
	svc := newTestSession(t, mockauth.NewMemorySessionStore(domainauth.PersistedRecord{}))

	snap := svc.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, domainauth.RoleUnknown, snap.Role)

	select {
	case <-svc.Ready():
		t.Fatal("ready must not close before hydration")
	default:
	}
}

func TestSessionService_Hydrate(t *testing.T) {
	t.Run("restores json string user with stored role", func(t *testing.T) {
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
			Auth:     "true",
			UserName: `"alice"`,
			Role:     "Patient",
		})
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())
		requireReady(t, svc)

		snap := svc.Snapshot()
		assert.False(t, snap.IsLoading)
		assert.True(t, snap.IsAuthenticated)
		require.NotNil(t, snap.User)
		assert.Equal(t, "alice", snap.User.UserName)
		assert.Equal(t, domainauth.RolePatient, snap.Role)
	})

	t.Run("restores json object user and keeps extra fields", func(t *testing.T) {
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
			Auth:     "true",
			UserName: `{"userName":"drsmith","role":"Doctor","email":"s@example.com"}`,
			Role:     "Patient",
		})
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())

		snap := svc.Snapshot()
		require.True(t, snap.IsAuthenticated)
		assert.Equal(t, "drsmith", snap.User.UserName)
		assert.Equal(t, domainauth.RoleDoctor, snap.Role, "user's own role wins over stored role")
		assert.Equal(t, "s@example.com", snap.User.Profile["email"])
	})

	t.Run("missing user is logged out and cleared", func(t *testing.T) {
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
			Auth: "true",
			Role: "Doctor",
		})
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())

		snap := svc.Snapshot()
		assert.False(t, snap.IsLoading)
		assert.False(t, snap.IsAuthenticated)
		assert.Nil(t, snap.User)
		assert.True(t, store.Record().IsEmpty())
		_, _, clears := store.Calls()
		assert.Equal(t, 1, clears)
	})

	for _, raw := range []string{`null`, `""`, `{"email":"x@example.com"}`} {
		t.Run("user without a name is logged out and cleared: "+raw, func(t *testing.T) {
			store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
				Auth:     "true",
				UserName: raw,
				Role:     "Patient",
				Token:    "tok",
			})
			svc := newTestSession(t, store)

			svc.Hydrate(context.Background())

			snap := svc.Snapshot()
			assert.False(t, snap.IsAuthenticated)
			assert.Nil(t, snap.User)
			assert.True(t, store.Record().IsEmpty())
		})
	}

	t.Run("malformed user falls back to raw value", func(t *testing.T) {
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
			Auth:     "true",
			UserName: "{not json",
			Role:     "Doctor",
		})
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())

		snap := svc.Snapshot()
		require.True(t, snap.IsAuthenticated)
		assert.Equal(t, "{not json", snap.User.UserName)
		assert.Equal(t, domainauth.RoleDoctor, snap.Role)
	})

	t.Run("auth flag other than true is logged out", func(t *testing.T) {
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
			Auth:     "false",
			UserName: `"alice"`,
		})
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())

		assert.False(t, svc.Snapshot().IsAuthenticated)
		_, _, clears := store.Calls()
		assert.Zero(t, clears, "nothing claims a login so nothing is discarded")
	})

	t.Run("storage failure settles logged out", func(t *testing.T) {
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
		store.LoadFunc = func(context.Context) (domainauth.PersistedRecord, error) {
			return domainauth.PersistedRecord{}, apperrors.Wrap(errors.New("disk unavailable"), apperrors.ErrCodeStorage, "load session")
		}
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())
		requireReady(t, svc)

		snap := svc.Snapshot()
		assert.False(t, snap.IsLoading)
		assert.False(t, snap.IsAuthenticated)
	})

	t.Run("expired token is logged out and cleared", func(t *testing.T) {
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
			Auth:     "true",
			UserName: `"alice"`,
			Role:     "Patient",
			Token:    signedToken(t, sessionTestNow.Add(-time.Minute)),
		})
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())

		assert.False(t, svc.Snapshot().IsAuthenticated)
		assert.True(t, store.Record().IsEmpty())
	})

	t.Run("valid token sets expiry", func(t *testing.T) {
		exp := sessionTestNow.Add(time.Hour)
		tok := signedToken(t, exp)
		store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
			Auth:     "true",
			UserName: `"alice"`,
			Role:     "Patient",
			Token:    tok,
		})
		svc := newTestSession(t, store)

		svc.Hydrate(context.Background())

		snap := svc.Snapshot()
		require.True(t, snap.IsAuthenticated)
		assert.Equal(t, tok, snap.Token)
		assert.True(t, exp.Equal(snap.ExpiresAt))
		assert.Equal(t, tok, svc.Token())
	})
}

func TestSessionService_HydrateLoadsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(domainauth.PersistedRecord{
		Auth:     "true",
		UserName: `"alice"`,
		Role:     "Patient",
	}, nil).Times(1)

	svc := NewSessionService(SessionServiceOptions{Store: store})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Hydrate(context.Background())
		}()
	}
	wg.Wait()

	assert.True(t, svc.Snapshot().IsAuthenticated)
}

func TestSessionService_LoginLogout(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)
	ctx := context.Background()
	svc.Hydrate(ctx)

	require.NoError(t, svc.Login(ctx, domainauth.User{UserName: "bob"}, domainauth.RoleDoctor, "opaque-token"))

	snap := svc.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "bob", snap.DisplayName())
	assert.Equal(t, domainauth.RoleDoctor, snap.Role)
	assert.Equal(t, "opaque-token", svc.Token())

	rec := store.Record()
	assert.Equal(t, "true", rec.Auth)
	assert.Equal(t, "Doctor", rec.Role)
	assert.Equal(t, "opaque-token", rec.Token)
	user, corrupt := domainauth.DecodeUser(rec.UserName, rec.Role)
	assert.False(t, corrupt)
	assert.Equal(t, "bob", user.UserName)

	require.NoError(t, svc.Logout(ctx))

	snap = svc.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, domainauth.RoleUnknown, snap.Role)
	assert.Empty(t, svc.Token())
	assert.True(t, store.Record().IsEmpty())
}

func TestSessionService_LoginRoleFallsBackToUserRole(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)

	err := svc.Login(context.Background(),
		domainauth.User{UserName: "carol", Role: domainauth.RolePatient},
		domainauth.RoleUnknown, "")
	require.NoError(t, err)

	assert.Equal(t, domainauth.RolePatient, svc.Snapshot().Role)
	assert.Equal(t, "Patient", store.Record().Role)
	assert.Empty(t, store.Record().Token)
}

func TestSessionService_LoginPersistFailureLeavesMemory(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	storageErr := apperrors.Wrap(errors.New("write failed"), apperrors.ErrCodeStorage, "save session")
	store.SaveFunc = func(context.Context, domainauth.PersistedRecord) error { return storageErr }
	svc := newTestSession(t, store)
	ctx := context.Background()
	svc.Hydrate(ctx)

	err := svc.Login(ctx, domainauth.User{UserName: "bob"}, domainauth.RoleDoctor, "t")
	require.Error(t, err)
	assert.ErrorIs(t, err, storageErr)
	assert.True(t, apperrors.IsStorage(err))

	snap := svc.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.True(t, store.Record().IsEmpty())
}

func TestSessionService_LogoutPersistFailureKeepsLogin(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)
	ctx := context.Background()
	svc.Hydrate(ctx)
	require.NoError(t, svc.Login(ctx, domainauth.User{UserName: "bob"}, domainauth.RoleDoctor, "t"))

	store.ClearFunc = func(context.Context) error { return errors.New("delete failed") }

	err := svc.Logout(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist logout")

	assert.True(t, svc.Snapshot().IsAuthenticated)
	assert.Equal(t, "true", store.Record().Auth)
}

func TestSessionService_LoginBeforeHydrateWins(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{
		Auth:     "true",
		UserName: `"alice"`,
		Role:     "Patient",
	})
	svc := newTestSession(t, store)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, domainauth.User{UserName: "bob"}, domainauth.RoleDoctor, ""))
	requireReady(t, svc)

	svc.Hydrate(ctx)

	snap := svc.Snapshot()
	assert.Equal(t, "bob", snap.DisplayName())
	assert.Equal(t, domainauth.RoleDoctor, snap.Role)
	loads, _, _ := store.Calls()
	assert.Zero(t, loads, "hydrate must not read storage once a login committed")
}

func TestSessionService_Subscribe(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)
	ctx := context.Background()

	ch, cancel := svc.Subscribe()
	defer cancel()

	first := <-ch
	assert.True(t, first.IsLoading)

	svc.Hydrate(ctx)
	require.NoError(t, svc.Login(ctx, domainauth.User{UserName: "alice"}, domainauth.RolePatient, ""))
	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Login(ctx, domainauth.User{UserName: "bob"}, domainauth.RoleDoctor, ""))

	// Every transition arrives, in commit order.
	var seen []string
	for range 4 {
		select {
		case sess := <-ch:
			name := "-"
			if sess.IsAuthenticated {
				name = sess.DisplayName()
			}
			seen = append(seen, name)
		case <-time.After(time.Second):
			t.Fatalf("missing transition after %v", seen)
		}
	}
	assert.Equal(t, []string{"-", "alice", "-", "bob"}, seen)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra value: %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestSessionService_SubscribeSlowReaderKeepsOrder(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)
	ctx := context.Background()
	svc.Hydrate(ctx)

	ch, cancel := svc.Subscribe()
	defer cancel()

	const rounds = 50
	for range rounds {
		require.NoError(t, svc.Login(ctx, domainauth.User{UserName: "alice"}, domainauth.RolePatient, ""))
		require.NoError(t, svc.Logout(ctx))
	}

	assert.False(t, (<-ch).IsAuthenticated)
	for i := range rounds {
		in, out := <-ch, <-ch
		require.True(t, in.IsAuthenticated, "round %d login", i)
		require.False(t, out.IsAuthenticated, "round %d logout", i)
	}
}

func TestSessionService_SnapshotIsCopy(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)
	ctx := context.Background()
	user := domainauth.User{UserName: "bob", Profile: map[string]any{"email": "b@example.com"}}
	require.NoError(t, svc.Login(ctx, user, domainauth.RoleDoctor, ""))

	user.Profile["email"] = "changed"
	snap := svc.Snapshot()
	snap.User.UserName = "mallory"
	snap.User.Profile["email"] = "mallory@example.com"

	again := svc.Snapshot()
	assert.Equal(t, "bob", again.User.UserName)
	assert.Equal(t, "b@example.com", again.User.Profile["email"])
}

func TestSessionService_Dispose(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)
	ctx := context.Background()

	ch, _ := svc.Subscribe()
	<-ch

	svc.Dispose()
	svc.Dispose()

	_, open := <-ch
	assert.False(t, open)

	assert.ErrorIs(t, svc.Login(ctx, domainauth.User{UserName: "bob"}, domainauth.RoleDoctor, ""), ErrSessionDisposed)
	assert.ErrorIs(t, svc.Logout(ctx), ErrSessionDisposed)

	svc.Hydrate(ctx)
	requireReady(t, svc)
	assert.False(t, svc.Snapshot().IsLoading)

	late, _ := svc.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestSessionService_ReloadAdoptsExternalChanges(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	portal := newTestSession(t, store)
	admin := newTestSession(t, store)
	ctx := context.Background()

	changed, err := portal.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "reload waits for hydration")
	loads, _, _ := store.Calls()
	assert.Zero(t, loads)

	portal.Hydrate(ctx)
	admin.Hydrate(ctx)

	require.NoError(t, admin.Login(ctx, domainauth.User{UserName: "alice"}, domainauth.RolePatient, "tok-1"))
	changed, err = portal.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "tok-1", portal.Token())

	changed, err = portal.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "unchanged record is not republished")

	require.NoError(t, admin.Logout(ctx))
	changed, err = portal.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, portal.Snapshot().IsAuthenticated)
	assert.Empty(t, portal.Token())
}

func TestSessionService_ReloadFailureKeepsSession(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	svc := newTestSession(t, store)
	ctx := context.Background()
	svc.Hydrate(ctx)
	require.NoError(t, svc.Login(ctx, domainauth.User{UserName: "alice"}, domainauth.RolePatient, "tok-1"))

	store.LoadFunc = func(context.Context) (domainauth.PersistedRecord, error) {
		return domainauth.PersistedRecord{}, apperrors.Wrap(errors.New("connection refused"), apperrors.ErrCodeStorage, "load")
	}

	changed, err := svc.Reload(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))
	assert.False(t, changed)
	assert.Equal(t, "tok-1", svc.Token())
}

func TestSessionService_RunSyncPublishesExternalLogout(t *testing.T) {
	store := mockauth.NewMemorySessionStore(domainauth.PersistedRecord{})
	portal := NewSessionService(SessionServiceOptions{
		Store:  store,
		Config: SessionServiceConfig{SyncInterval: 5 * time.Millisecond},
	})
	ctx, cancel := context.WithCancel(context.Background())
	portal.Hydrate(ctx)
	require.NoError(t, portal.Login(ctx, domainauth.User{UserName: "alice"}, domainauth.RolePatient, "tok-1"))

	ch, unsubscribe := portal.Subscribe()
	defer unsubscribe()
	require.True(t, (<-ch).IsAuthenticated)

	done := make(chan error, 1)
	go func() { done <- portal.RunSync(ctx) }()

	require.NoError(t, store.Clear(ctx))

	select {
	case sess := <-ch:
		assert.False(t, sess.IsAuthenticated)
	case <-time.After(time.Second):
		t.Fatal("external logout was not picked up")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestSessionService_RunSyncDisabled(t *testing.T) {
	svc := newTestSession(t, mockauth.NewMemorySessionStore(domainauth.PersistedRecord{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.RunSync(ctx))
}
