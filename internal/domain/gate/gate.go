// Package gate decides whether a protected route may render for a given session.
// The decision is a pure projection of the session snapshot; the gate keeps no state.
package gate

import "github.com/medscan/portal/internal/domain/auth"

// Decision is the outcome for one protected request.
type Decision int

const (
	// Loading means hydration has not finished and the session is not yet trustworthy.
	Loading Decision = iota
	// Denied means the session settled as logged out.
	Denied
	// Granted means the session is authenticated.
	Granted
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	default:
		return "unknown"
	}
}

// Decide maps a session snapshot to a gate decision.
// IsLoading wins over IsAuthenticated.
func Decide(s auth.Session) Decision {
	if s.IsLoading {
		return Loading
	}
	if s.IsAuthenticated && s.User != nil {
		return Granted
	}
	return Denied
}

// Allows reports whether role may access a route restricted to roles.
// An empty roles list allows every authenticated role.
func Allows(role auth.Role, roles ...auth.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
