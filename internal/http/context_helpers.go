package httpx

import (
	"context"

	domainauth "github.com/medscan/portal/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the session snapshot the gate admitted.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session placed by RequireSession and whether one was present.
func GetSessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domainauth.Session)
	return s, ok
}

// IsGuest reports whether the request context carries no authenticated session.
func IsGuest(ctx context.Context) bool {
	s, ok := GetSessionFromContext(ctx)
	return !ok || !s.IsAuthenticated
}
