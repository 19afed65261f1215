package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/observability/metrics"
	"github.com/medscan/portal/internal/ports"
)

// ErrSessionDisposed is returned by Login and Logout after Dispose.
var ErrSessionDisposed = errors.New("session disposed")

// SessionServiceConfig holds optional collaborators for SessionService.
type SessionServiceConfig struct {
	// Now defaults to time.Now; tests pin it to check token expiry.
	Now     func() time.Time
	Metrics *metrics.Portal
	// SyncInterval is how often RunSync re-reads storage. Zero disables it.
	SyncInterval time.Duration
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store  ports.SessionStore // Required
	Logger *slog.Logger       // Optional
	Config SessionServiceConfig
}

// SessionService owns the one client session.
//
// It starts in the loading state. Hydrate settles it from storage exactly once.
// Login and Logout commit to storage first and only then change memory,
// so the two never disagree after a failed write.
type SessionService struct {
	store     ports.SessionStore
	logger    *slog.Logger
	now       func() time.Time
	metrics   *metrics.Portal
	syncEvery time.Duration

	// commitMu serializes hydrate, login and logout.
	commitMu    sync.Mutex
	hydrateOnce sync.Once
	readyOnce   sync.Once
	ready       chan struct{}

	mu       sync.RWMutex
	state    domainauth.Session
	mutated  bool // a login or logout has committed
	disposed bool
	subs     map[uint64]*subscriber
	nextSub  uint64
}

var _ ports.TokenSource = (*SessionService)(nil)

// NewSessionService creates a session in the loading state.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Store == nil {
		panic("SessionService requires a Store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		store:     opts.Store,
		logger:    logger.With("component", "session"),
		now:       now,
		metrics:   opts.Config.Metrics,
		syncEvery: opts.Config.SyncInterval,
		ready:     make(chan struct{}),
		state:     domainauth.Session{IsLoading: true, Role: domainauth.RoleUnknown},
		subs:      make(map[uint64]*subscriber),
	}
}

// Hydrate restores the session from storage. The body runs once; later or concurrent
// calls wait for it and return. Storage problems settle the session as logged out.
func (s *SessionService) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() { s.hydrate(ctx) })
}

func (s *SessionService) hydrate(ctx context.Context) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	mutated, disposed := s.mutated, s.disposed
	s.mu.RUnlock()
	if mutated {
		// A login or logout already settled the session.
		return
	}
	if disposed {
		s.settle(domainauth.LoggedOut())
		return
	}

	rec, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "session storage unavailable; starting logged out", "error", err)
		s.metrics.ObserveSession("hydrate", err)
		s.settle(domainauth.LoggedOut())
		return
	}

	next, discard := s.restore(rec)
	if discard {
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.logger.WarnContext(ctx, "failed to clear unusable session record", "error", clearErr)
		}
	}

	s.metrics.ObserveSession("hydrate", nil)
	s.settle(next)
	s.logger.InfoContext(ctx, "session hydrated",
		"authenticated", next.IsAuthenticated,
		"role", next.Role,
	)
}

// restore turns a persisted record into a session. discard reports a record
// that claims a login but cannot be used, so it should be cleared.
func (s *SessionService) restore(rec domainauth.PersistedRecord) (sess domainauth.Session, discard bool) {
	if rec.Auth != domainauth.AuthFlagTrue {
		return domainauth.LoggedOut(), false
	}

	if rec.UserName == "" {
		s.logger.Warn("session marked authenticated but user is missing; treating as logged out")
		return domainauth.LoggedOut(), true
	}

	if domainauth.TokenExpired(rec.Token, s.now()) {
		s.logger.Info("stored token has expired; treating as logged out")
		return domainauth.LoggedOut(), true
	}

	user, corrupt := domainauth.DecodeUser(rec.UserName, rec.Role)
	if corrupt {
		s.logger.Warn("stored user is not valid JSON; using raw value as display name",
			"code", apperrors.ErrCodeStorageCorruption,
		)
	}
	if strings.TrimSpace(user.UserName) == "" {
		s.logger.Warn("stored user has no name; treating as logged out")
		return domainauth.LoggedOut(), true
	}

	exp, _ := domainauth.TokenExpiry(rec.Token)
	return domainauth.Session{
		IsAuthenticated: true,
		User:            &user,
		Role:            domainauth.DeriveRole(&user, rec.Role),
		Token:           rec.Token,
		ExpiresAt:       exp,
	}, false
}

// Login persists the session and then makes it current.
// When the write fails nothing changes and the storage error is returned.
// role may be RoleUnknown, in which case user.Role is used.
func (s *SessionService) Login(ctx context.Context, user domainauth.User, role domainauth.Role, token string) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if s.isDisposed() {
		return ErrSessionDisposed
	}

	if !role.Known() {
		role = user.Role
	}
	if !role.Known() {
		role = domainauth.RoleUnknown
	}
	user.Role = role
	user.Profile = maps.Clone(user.Profile)

	encoded, err := domainauth.EncodeUser(user)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode user")
	}

	rec := domainauth.PersistedRecord{
		Auth:     domainauth.AuthFlagTrue,
		UserName: encoded,
		Role:     string(role),
		Token:    token,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.metrics.ObserveSession("login", err)
		return fmt.Errorf("persist login: %w", err)
	}

	exp, _ := domainauth.TokenExpiry(token)
	s.mu.Lock()
	s.mutated = true
	s.mu.Unlock()
	s.settle(domainauth.Session{
		IsAuthenticated: true,
		User:            &user,
		Role:            role,
		Token:           token,
		ExpiresAt:       exp,
	})

	s.metrics.ObserveSession("login", nil)
	s.logger.InfoContext(ctx, "logged in", "user", user.UserName, "role", role)
	return nil
}

// Logout removes every persisted key and then clears memory.
// When the delete fails the session stays logged in and the error is returned.
func (s *SessionService) Logout(ctx context.Context) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if s.isDisposed() {
		return ErrSessionDisposed
	}

	if err := s.store.Clear(ctx); err != nil {
		s.metrics.ObserveSession("logout", err)
		return fmt.Errorf("persist logout: %w", err)
	}

	s.mu.Lock()
	s.mutated = true
	s.mu.Unlock()
	s.settle(domainauth.LoggedOut())

	s.metrics.ObserveSession("logout", nil)
	s.logger.InfoContext(ctx, "logged out")
	return nil
}

// Reload re-reads storage and adopts the record when another process changed it,
// for example medscan-admin logging out. It does nothing before hydration or after
// Dispose. A failed read keeps the current session and returns the error.
func (s *SessionService) Reload(ctx context.Context) (changed bool, err error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	current, disposed := s.state, s.disposed
	s.mu.RUnlock()
	if disposed || current.IsLoading {
		return false, nil
	}

	rec, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.ObserveSession("reload", err)
		return false, fmt.Errorf("reload session: %w", err)
	}
	next, discard := s.restore(rec)
	if discard {
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.logger.WarnContext(ctx, "failed to clear unusable session record", "error", clearErr)
		}
	}
	if sameSession(current, next) {
		return false, nil
	}

	s.metrics.ObserveSession("reload", nil)
	s.settle(next)
	s.logger.InfoContext(ctx, "session changed in storage",
		"authenticated", next.IsAuthenticated,
		"role", next.Role,
	)
	return true, nil
}

// RunSync calls Reload every SyncInterval until ctx ends.
func (s *SessionService) RunSync(ctx context.Context) error {
	if s.syncEvery <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.syncEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				s.logger.WarnContext(ctx, "session sync failed; keeping current session", "error", err)
			}
		}
	}
}

func sameSession(a, b domainauth.Session) bool {
	if a.IsAuthenticated != b.IsAuthenticated {
		return false
	}
	if !a.IsAuthenticated {
		return true
	}
	return a.Token == b.Token && a.Role == b.Role && a.DisplayName() == b.DisplayName()
}

// settle replaces the state, ends the loading window and notifies subscribers.
func (s *SessionService) settle(next domainauth.Session) {
	next.IsLoading = false

	s.mu.Lock()
	s.state = next
	for _, sub := range s.subs {
		sub.push(cloneSession(next))
	}
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
}

// Snapshot returns a copy of the current session.
func (s *SessionService) Snapshot() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.state)
}

// Ready is closed once the loading window has ended.
func (s *SessionService) Ready() <-chan struct{} { return s.ready }

// Token returns the bearer token of the current session, or "".
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.IsAuthenticated {
		return ""
	}
	return s.state.Token
}

// Subscribe delivers the current session immediately and then every transition in
// the order it committed. Nothing is merged, so a logout followed by a login is seen
// as two values. The writer never blocks. The channel is closed by cancel or Dispose.
func (s *SessionService) Subscribe() (<-chan domainauth.Session, func()) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		ch := make(chan domainauth.Session)
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	sub := newSubscriber(cloneSession(s.state))
	s.subs[id] = sub
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				c.stop()
			}
		})
	}
	return sub.out, cancel
}

// Dispose closes every subscription. Later Login and Logout calls fail with ErrSessionDisposed.
func (s *SessionService) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	for id, sub := range s.subs {
		delete(s.subs, id)
		sub.stop()
	}
}

func (s *SessionService) isDisposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disposed
}

// subscriber queues transitions for one reader and feeds them to out in order.
type subscriber struct {
	out  chan domainauth.Session
	wake chan struct{}
	done chan struct{}

	mu    sync.Mutex
	queue []domainauth.Session
}

func newSubscriber(initial domainauth.Session) *subscriber {
	sub := &subscriber{
		out:   make(chan domainauth.Session),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		queue: []domainauth.Session{initial},
	}
	sub.wake <- struct{}{}
	go sub.pump()
	return sub
}

func (sub *subscriber) push(v domainauth.Session) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, v)
	sub.mu.Unlock()
	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

// stop ends delivery. Callers hold SessionService.mu and call it once.
func (sub *subscriber) stop() { close(sub.done) }

func (sub *subscriber) pump() {
	defer close(sub.out)
	for {
		select {
		case <-sub.done:
			return
		case <-sub.wake:
		}
		for {
			next, ok := sub.pop()
			if !ok {
				break
			}
			select {
			case <-sub.done:
				return
			default:
			}
			select {
			case sub.out <- next:
			case <-sub.done:
				return
			}
		}
	}
}

func (sub *subscriber) pop() (domainauth.Session, bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.queue) == 0 {
		return domainauth.Session{}, false
	}
	next := sub.queue[0]
	sub.queue[0] = domainauth.Session{}
	sub.queue = sub.queue[1:]
	return next, true
}

func cloneSession(in domainauth.Session) domainauth.Session {
	out := in
	if in.User != nil {
		u := *in.User
		u.Profile = maps.Clone(in.User.Profile)
		out.User = &u
	}
	return out
}
