package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/mocks"
	mockauth "github.com/medscan/portal/internal/mocks/auth"
	"github.com/medscan/portal/internal/testutil"
)

const waitFor = 2 * time.Second

type pollerHarness struct {
	svc     *NotificationService
	session *SessionService
	api     *mocks.MockNotificationAPI
}

// newPollerHarness wires a poller to a real session and starts Run.
// Interval is long so only the immediate fetch happens unless a test asks for more.
func newPollerHarness(t *testing.T, interval time.Duration) *pollerHarness {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockNotificationAPI(ctrl)

	session := NewSessionService(SessionServiceOptions{
		Store: mockauth.NewMemorySessionStore(domainauth.PersistedRecord{}),
	})
	session.Hydrate(context.Background())

	svc := NewNotificationService(NotificationServiceOptions{
		Deps: NotificationDeps{API: api, Session: session},
		Config: NotificationServiceConfig{
			Interval: interval,
			Now:      testutil.FixedTimeFunc(sessionTestNow),
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return session.subscriberCount() == 1 }, waitFor, time.Millisecond)

	return &pollerHarness{svc: svc, session: session, api: api}
}

func (h *pollerHarness) login(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, h.session.Login(context.Background(), domainauth.User{UserName: name}, domainauth.RolePatient, ""))
}

func (h *pollerHarness) waitFetched(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := h.svc.Snapshot()
		return !snap.LastFetchedAt.IsZero() && !snap.Loading
	}, waitFor, 5*time.Millisecond)
}

func sampleNotifications() []model.Notification {
	return testutil.Notifications(
		testutil.NewNotification("1", "Appointment confirmed"),
		testutil.NewNotification("2", "Results ready").Read(),
		testutil.NewNotification("3", "Reminder"),
	)
}

func TestNewNotificationService_RequiresDeps(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockNotificationAPI(ctrl)

	assert.Panics(t, func() { NewNotificationService(NotificationServiceOptions{}) })
	assert.Panics(t, func() {
		NewNotificationService(NotificationServiceOptions{Deps: NotificationDeps{API: api}})
	})
}

func TestNotificationService_NextDelay(t *testing.T) {
	svc := &NotificationService{interval: 30 * time.Second, maxBackoff: 5 * time.Minute}

	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 30 * time.Second},
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 5 * time.Minute},
		{40, 5 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.nextDelay(tt.failures), "failures=%d", tt.failures)
	}
}

func TestNotificationService_PollsWhileLoggedIn(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil).Times(1)

	assert.False(t, h.svc.Snapshot().Active)

	h.login(t, "alice")
	h.waitFetched(t)

	snap := h.svc.Snapshot()
	assert.True(t, snap.Active)
	assert.Len(t, snap.Notifications, 3)
	assert.Equal(t, 2, snap.UnreadCount)
	assert.NoError(t, snap.LastError)

	require.NoError(t, h.session.Logout(context.Background()))
	require.Eventually(t, func() bool { return !h.svc.Snapshot().Active }, waitFor, 5*time.Millisecond)

	snap = h.svc.Snapshot()
	assert.Empty(t, snap.Notifications)
	assert.Zero(t, snap.UnreadCount)
	assert.Equal(t, NotificationStats{LoopsStarted: 1, LoopsStopped: 1}, h.svc.Stats())
}

func TestNotificationService_OneLoopPerLogin(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	h.api.EXPECT().ListNotifications(gomock.Any()).Return(nil, nil).AnyTimes()
	ctx := context.Background()

	for i := range 3 {
		h.login(t, "alice")
		// A repeated login for the same user keeps the running loop.
		h.login(t, "alice")
		require.Eventually(t, func() bool { return h.svc.Stats().LoopsStarted == i+1 }, waitFor, 5*time.Millisecond)

		require.NoError(t, h.session.Logout(ctx))
		require.Eventually(t, func() bool { return h.svc.Stats().LoopsStopped == i+1 }, waitFor, 5*time.Millisecond)
	}

	assert.Equal(t, NotificationStats{LoopsStarted: 3, LoopsStopped: 3}, h.svc.Stats())
}

func TestNotificationService_BackToBackRelogin(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil).AnyTimes()
	ctx := context.Background()

	h.login(t, "alice")
	const logouts = 100
	for range logouts {
		require.NoError(t, h.session.Logout(ctx))
		h.login(t, "alice")
	}

	// Every logout stops exactly one loop even when the same user logs straight back in.
	require.Eventually(t, func() bool {
		return h.svc.Stats() == NotificationStats{LoopsStarted: logouts + 1, LoopsStopped: logouts}
	}, waitFor, 5*time.Millisecond)
	assert.True(t, h.svc.Snapshot().Active)

	require.NoError(t, h.session.Logout(ctx))
	require.Eventually(t, func() bool { return h.svc.Stats().LoopsStopped == logouts+1 }, waitFor, 5*time.Millisecond)
	assert.Empty(t, h.svc.Snapshot().Notifications)
}

func TestNotificationService_UserSwitchRestartsLoop(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil).AnyTimes()

	h.login(t, "alice")
	h.waitFetched(t)
	h.login(t, "bob")

	require.Eventually(t, func() bool {
		st := h.svc.Stats()
		return st.LoopsStarted == 2 && st.LoopsStopped == 1
	}, waitFor, 5*time.Millisecond)
}

func TestNotificationService_FetchFailureKeepsCache(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	fetchErr := errors.New("boom")
	gomock.InOrder(
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil),
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(nil, fetchErr),
	)

	h.login(t, "alice")
	h.waitFetched(t)

	err := h.svc.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)

	snap := h.svc.Snapshot()
	assert.Len(t, snap.Notifications, 3)
	assert.Equal(t, 2, snap.UnreadCount)
	assert.ErrorIs(t, snap.LastError, fetchErr)
}

func TestNotificationService_LastStartedFetchWins(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	started := make(chan struct{})
	release := make(chan struct{})
	stale := []model.Notification{{ID: "old", IsRead: false}}
	fresh := []model.Notification{{ID: "new", IsRead: true}}

	first := h.api.EXPECT().ListNotifications(gomock.Any()).DoAndReturn(
		func(context.Context) ([]model.Notification, error) {
			close(started)
			<-release
			return stale, nil
		})
	h.api.EXPECT().ListNotifications(gomock.Any()).Return(fresh, nil).After(first)

	h.login(t, "alice")
	<-started

	require.NoError(t, h.svc.Refresh(context.Background()))
	close(release)

	h.waitFetched(t)
	snap := h.svc.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, model.ID("new"), snap.Notifications[0].ID)
	assert.Zero(t, snap.UnreadCount)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newPollerHarness(t, time.Hour)
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil)
		h.api.EXPECT().MarkNotificationRead(gomock.Any(), model.ID("1")).Return(nil)

		h.login(t, "alice")
		h.waitFetched(t)

		require.NoError(t, h.svc.MarkAsRead(context.Background(), "1"))

		snap := h.svc.Snapshot()
		assert.True(t, snap.Notifications[0].IsRead)
		assert.Equal(t, 1, snap.UnreadCount)
	})

	t.Run("failure restores prior state", func(t *testing.T) {
		h := newPollerHarness(t, time.Hour)
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil)
		h.api.EXPECT().MarkNotificationRead(gomock.Any(), model.ID("1")).Return(errors.New("offline"))

		h.login(t, "alice")
		h.waitFetched(t)
		before := h.svc.Snapshot()

		err := h.svc.MarkAsRead(context.Background(), "1")
		require.Error(t, err)

		after := h.svc.Snapshot()
		assert.Equal(t, before.Notifications, after.Notifications)
		assert.Equal(t, before.UnreadCount, after.UnreadCount)
	})
}

func TestNotificationService_MarkAllAsReadFailureRestores(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil)
	h.api.EXPECT().MarkAllNotificationsRead(gomock.Any()).Return(errors.New("offline"))

	h.login(t, "alice")
	h.waitFetched(t)
	before := h.svc.Snapshot()

	require.Error(t, h.svc.MarkAllAsRead(context.Background()))

	after := h.svc.Snapshot()
	assert.Equal(t, before.Notifications, after.Notifications)
	assert.Equal(t, 2, after.UnreadCount)
}

func TestNotificationService_Delete(t *testing.T) {
	t.Run("success removes", func(t *testing.T) {
		h := newPollerHarness(t, time.Hour)
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil)
		h.api.EXPECT().DeleteNotification(gomock.Any(), model.ID("2")).Return(nil)

		h.login(t, "alice")
		h.waitFetched(t)

		require.NoError(t, h.svc.Delete(context.Background(), "2"))

		snap := h.svc.Snapshot()
		require.Len(t, snap.Notifications, 2)
		assert.Equal(t, model.ID("1"), snap.Notifications[0].ID)
		assert.Equal(t, model.ID("3"), snap.Notifications[1].ID)
	})

	t.Run("failure reinserts at original position", func(t *testing.T) {
		h := newPollerHarness(t, time.Hour)
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil)
		h.api.EXPECT().DeleteNotification(gomock.Any(), model.ID("2")).Return(errors.New("offline"))

		h.login(t, "alice")
		h.waitFetched(t)
		before := h.svc.Snapshot()

		require.Error(t, h.svc.Delete(context.Background(), "2"))
		assert.Equal(t, before.Notifications, h.svc.Snapshot().Notifications)
	})
}

func TestNotificationService_PendingMutationSurvivesPoll(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	inRemote := make(chan struct{})
	release := make(chan struct{})

	h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil).Times(2)
	h.api.EXPECT().MarkNotificationRead(gomock.Any(), model.ID("1")).DoAndReturn(
		func(context.Context, model.ID) error {
			close(inRemote)
			<-release
			return nil
		})

	h.login(t, "alice")
	h.waitFetched(t)

	errCh := make(chan error, 1)
	go func() { errCh <- h.svc.MarkAsRead(context.Background(), "1") }()
	<-inRemote

	// The server has not seen the change yet and still reports "1" unread.
	require.NoError(t, h.svc.Refresh(context.Background()))
	assert.True(t, h.svc.Snapshot().Notifications[0].IsRead)

	close(release)
	require.NoError(t, <-errCh)
	assert.Equal(t, 1, h.svc.Snapshot().UnreadCount)
}

func TestNotificationService_Add(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil)

	assert.False(t, h.svc.Add(model.Notification{ID: "x"}), "ignored while logged out")

	h.login(t, "alice")
	h.waitFetched(t)

	require.True(t, h.svc.Add(model.Notification{ID: "9", Title: "New message"}))
	snap := h.svc.Snapshot()
	assert.Equal(t, model.ID("9"), snap.Notifications[0].ID)
	assert.Equal(t, 3, snap.UnreadCount)
}

func TestNotificationService_InactiveCalls(t *testing.T) {
	h := newPollerHarness(t, time.Hour)
	ctx := context.Background()

	assert.True(t, IsInactive(h.svc.Refresh(ctx)))
	assert.True(t, IsInactive(h.svc.MarkAsRead(ctx, "1")))
	assert.True(t, IsInactive(h.svc.MarkAllAsRead(ctx)))
	assert.True(t, IsInactive(h.svc.Delete(ctx, "1")))
}

func TestNotificationService_BacksOffAndRecovers(t *testing.T) {
	h := newPollerHarness(t, 10*time.Millisecond)
	h.svc.maxBackoff = 40 * time.Millisecond

	gomock.InOrder(
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(nil, errors.New("down")).Times(2),
		h.api.EXPECT().ListNotifications(gomock.Any()).Return(sampleNotifications(), nil).MinTimes(1),
	)

	h.login(t, "alice")

	require.Eventually(t, func() bool {
		snap := h.svc.Snapshot()
		return snap.LastError == nil && len(snap.Notifications) == 3
	}, waitFor, 5*time.Millisecond)
}
