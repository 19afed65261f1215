package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/model"
	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/observability/metrics"
	"github.com/medscan/portal/internal/ports"
)

const (
	defaultNotificationInterval   = 30 * time.Second
	defaultNotificationMaxBackoff = 5 * time.Minute
)

// ErrNotificationsInactive is returned when no user is logged in.
var ErrNotificationsInactive = apperrors.Unauthenticated("notifications are only available while logged in")

// SessionWatcher is the part of SessionService the poller depends on.
type SessionWatcher interface {
	Subscribe() (<-chan domainauth.Session, func())
}

// NotificationServiceConfig tunes the poll schedule.
type NotificationServiceConfig struct {
	Interval   time.Duration // default 30s
	MaxBackoff time.Duration // default 5m, never below Interval
	Metrics    *metrics.Portal
	Now        func() time.Time
}

// NotificationDeps are the required collaborators.
type NotificationDeps struct {
	API     ports.NotificationAPI
	Session SessionWatcher
}

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Deps   NotificationDeps // Required
	Logger *slog.Logger     // Optional
	Config NotificationServiceConfig
}

// NotificationSnapshot is a point-in-time copy of the notification cache.
type NotificationSnapshot struct {
	Notifications []model.Notification
	UnreadCount   int
	Loading       bool
	LastError     error
	LastFetchedAt time.Time
	Active        bool
}

// NotificationStats counts poll loop lifecycle events.
type NotificationStats struct {
	LoopsStarted int
	LoopsStopped int
}

type mutationKind string

const (
	mutationMarkRead    mutationKind = "mark_read"
	mutationMarkAllRead mutationKind = "mark_all_read"
	mutationDelete      mutationKind = "delete"
)

// pendingMutation is an optimistic change not yet confirmed by the remote service.
type pendingMutation struct {
	id     string
	kind   mutationKind
	target model.ID

	// prevRead holds IsRead before the change for every notification it touched.
	prevRead map[model.ID]bool
	// removed and removedAt describe a deleted notification.
	removed   *model.Notification
	removedAt int
}

// NotificationService polls the remote notification list while a user is logged in.
//
// One poll loop exists per logged-in user. Its generation number changes whenever the
// loop starts or stops so late responses from a previous session are dropped.
type NotificationService struct {
	api        ports.NotificationAPI
	session    SessionWatcher
	logger     *slog.Logger
	metrics    *metrics.Portal
	now        func() time.Time
	interval   time.Duration
	maxBackoff time.Duration

	// loopMu guards loop start and stop.
	loopMu     sync.Mutex
	loopCancel context.CancelFunc
	loopDone   chan struct{}
	loopUser   string

	mu            sync.Mutex
	active        bool
	gen           uint64
	fetchSeq      uint64
	inflight      int
	items         []model.Notification
	pending       []*pendingMutation
	lastErr       error
	lastFetchedAt time.Time
	stats         NotificationStats
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	if opts.Deps.API == nil {
		panic("NotificationService requires an API")
	}
	if opts.Deps.Session == nil {
		panic("NotificationService requires a Session")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := opts.Config
	if cfg.Interval <= 0 {
		cfg.Interval = defaultNotificationInterval
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultNotificationMaxBackoff
	}
	if cfg.MaxBackoff < cfg.Interval {
		cfg.MaxBackoff = cfg.Interval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &NotificationService{
		api:        opts.Deps.API,
		session:    opts.Deps.Session,
		logger:     logger.With("component", "notifications"),
		metrics:    cfg.Metrics,
		now:        cfg.Now,
		interval:   cfg.Interval,
		maxBackoff: cfg.MaxBackoff,
	}
}

// Run follows the session until ctx ends. A poll loop runs while a user is logged in
// and is stopped (cache cleared) when the user logs out. Run returns nil on cancellation.
func (s *NotificationService) Run(ctx context.Context) error {
	sessions, cancel := s.session.Subscribe()
	defer cancel()
	defer s.stopLoop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case sess, ok := <-sessions:
			if !ok {
				return nil
			}
			s.onSession(ctx, sess)
		}
	}
}

func (s *NotificationService) onSession(ctx context.Context, sess domainauth.Session) {
	if sess.IsLoading || sess.User == nil {
		s.stopLoop()
		return
	}

	s.loopMu.Lock()
	running, sameUser := s.loopCancel != nil, s.loopUser == sess.User.UserName
	s.loopMu.Unlock()
	if running && sameUser {
		return
	}
	s.stopLoop()
	s.startLoop(ctx, sess.User.UserName)
}

func (s *NotificationService) startLoop(ctx context.Context, user string) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.loopCancel, s.loopDone, s.loopUser = cancel, done, user

	s.mu.Lock()
	s.gen++
	s.active = true
	s.stats.LoopsStarted++
	s.mu.Unlock()

	s.metrics.ObservePollLoop("start")
	s.logger.DebugContext(ctx, "notification polling started", "interval", s.interval)

	go func() {
		defer close(done)
		s.pollLoop(loopCtx)
	}()
}

// stopLoop cancels the running loop, waits for it to exit and clears the cache.
func (s *NotificationService) stopLoop() {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.loopCancel == nil {
		return
	}

	s.loopCancel()
	<-s.loopDone
	s.loopCancel, s.loopDone, s.loopUser = nil, nil, ""

	s.mu.Lock()
	s.gen++
	s.active = false
	s.items = nil
	s.pending = nil
	s.lastErr = nil
	s.lastFetchedAt = time.Time{}
	s.stats.LoopsStopped++
	s.mu.Unlock()

	s.metrics.SetUnread(0)
	s.metrics.ObservePollLoop("stop")
	s.logger.Debug("notification polling stopped")
}

func (s *NotificationService) pollLoop(ctx context.Context) {
	failures := 0
	for {
		err := s.fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			failures++
		} else {
			failures = 0
		}

		timer := time.NewTimer(s.nextDelay(failures))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// nextDelay is Interval·2^failures, capped at MaxBackoff.
func (s *NotificationService) nextDelay(failures int) time.Duration {
	d := s.interval
	for range failures {
		if d >= s.maxBackoff/2 {
			return s.maxBackoff
		}
		d *= 2
	}
	return min(d, s.maxBackoff)
}

// Refresh fetches the list now. It fails with ErrNotificationsInactive when logged out.
func (s *NotificationService) Refresh(ctx context.Context) error {
	if !s.isActive() {
		return ErrNotificationsInactive
	}
	return s.fetch(ctx)
}

// fetch loads the remote list. Only the most recently started fetch of the current
// generation may replace the cache.
func (s *NotificationService) fetch(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq, gen := s.fetchSeq, s.gen
	s.inflight++
	s.mu.Unlock()

	list, err := s.api.ListNotifications(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if gen != s.gen || seq != s.fetchSeq {
		s.logger.DebugContext(ctx, "discarding stale notification response", "seq", seq)
		return err
	}

	s.metrics.ObservePoll(err)
	if err != nil {
		if ctx.Err() == nil {
			s.lastErr = err
			s.logger.WarnContext(ctx, "notification fetch failed", "error", err)
		}
		return fmt.Errorf("list notifications: %w", err)
	}

	items := model.CloneNotifications(list)
	if items == nil {
		items = []model.Notification{}
	}
	for _, m := range s.pending {
		items = m.overlay(items)
	}
	s.items = items
	s.lastErr = nil
	s.lastFetchedAt = s.now()
	s.metrics.SetUnread(model.CountUnread(s.items))
	return nil
}

// Add prepends a notification that arrived outside the poll. It is ignored when logged out.
func (s *NotificationService) Add(n model.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	s.items = slices.Insert(s.items, 0, n)
	s.metrics.SetUnread(model.CountUnread(s.items))
	return true
}

// MarkAsRead marks one notification read locally and then remotely.
// A remote failure reverts the local change and is returned.
func (s *NotificationService) MarkAsRead(ctx context.Context, id model.ID) error {
	m := &pendingMutation{kind: mutationMarkRead, target: id}
	return s.mutate(ctx, m, func(ctx context.Context) error {
		return s.api.MarkNotificationRead(ctx, id)
	})
}

// MarkAllAsRead marks every cached notification read locally and then remotely.
func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	m := &pendingMutation{kind: mutationMarkAllRead}
	return s.mutate(ctx, m, s.api.MarkAllNotificationsRead)
}

// Delete removes a notification locally and then remotely.
func (s *NotificationService) Delete(ctx context.Context, id model.ID) error {
	m := &pendingMutation{kind: mutationDelete, target: id}
	return s.mutate(ctx, m, func(ctx context.Context) error {
		return s.api.DeleteNotification(ctx, id)
	})
}

func (s *NotificationService) mutate(ctx context.Context, m *pendingMutation, remote func(context.Context) error) error {
	m.id = uuid.NewString()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrNotificationsInactive
	}
	gen := s.gen
	s.items = m.apply(s.items)
	s.pending = append(s.pending, m)
	s.metrics.SetUnread(model.CountUnread(s.items))
	s.mu.Unlock()

	err := remote(ctx)
	s.metrics.ObserveMutation(string(m.kind), err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = slices.DeleteFunc(s.pending, func(p *pendingMutation) bool { return p.id == m.id })
	if err != nil && gen == s.gen {
		s.items = m.revert(s.items)
		s.metrics.SetUnread(model.CountUnread(s.items))
		s.logger.WarnContext(ctx, "notification update failed; reverted",
			"op", m.kind,
			"id", m.target,
			"error", err,
		)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", m.kind, err)
	}
	return nil
}

// apply performs the optimistic change and records what it replaced.
func (m *pendingMutation) apply(items []model.Notification) []model.Notification {
	m.prevRead = make(map[model.ID]bool)
	switch m.kind {
	case mutationMarkRead:
		if i := indexOfNotification(items, m.target); i >= 0 {
			m.prevRead[m.target] = items[i].IsRead
			items[i].IsRead = true
		}
	case mutationMarkAllRead:
		for i := range items {
			m.prevRead[items[i].ID] = items[i].IsRead
			items[i].IsRead = true
		}
	case mutationDelete:
		if i := indexOfNotification(items, m.target); i >= 0 {
			removed := items[i]
			m.removed, m.removedAt = &removed, i
			items = slices.Delete(items, i, i+1)
		}
	}
	return items
}

// overlay reapplies a still-pending change to a freshly fetched list.
func (m *pendingMutation) overlay(items []model.Notification) []model.Notification {
	switch m.kind {
	case mutationMarkRead:
		if i := indexOfNotification(items, m.target); i >= 0 {
			items[i].IsRead = true
		}
	case mutationMarkAllRead:
		for i := range items {
			if _, touched := m.prevRead[items[i].ID]; touched {
				items[i].IsRead = true
			}
		}
	case mutationDelete:
		items = slices.DeleteFunc(items, func(n model.Notification) bool { return n.ID == m.target })
	}
	return items
}

// revert restores what apply changed, for notifications still present.
func (m *pendingMutation) revert(items []model.Notification) []model.Notification {
	switch m.kind {
	case mutationMarkRead, mutationMarkAllRead:
		for i := range items {
			if prev, ok := m.prevRead[items[i].ID]; ok {
				items[i].IsRead = prev
			}
		}
	case mutationDelete:
		if m.removed != nil && indexOfNotification(items, m.target) < 0 {
			at := min(m.removedAt, len(items))
			items = slices.Insert(items, at, *m.removed)
		}
	}
	return items
}

func indexOfNotification(items []model.Notification, id model.ID) int {
	return slices.IndexFunc(items, func(n model.Notification) bool { return n.ID == id })
}

// Snapshot returns a copy of the cache and poll status.
func (s *NotificationService) Snapshot() NotificationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NotificationSnapshot{
		Notifications: model.CloneNotifications(s.items),
		UnreadCount:   model.CountUnread(s.items),
		Loading:       s.inflight > 0,
		LastError:     s.lastErr,
		LastFetchedAt: s.lastFetchedAt,
		Active:        s.active,
	}
}

// Stats reports how many poll loops have started and stopped.
func (s *NotificationService) Stats() NotificationStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *NotificationService) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// IsInactive reports whether err came from a call made while logged out.
func IsInactive(err error) bool { return errors.Is(err, ErrNotificationsInactive) }
