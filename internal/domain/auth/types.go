package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents a portal user's role.
// Keep string form for easy persistence; the remote API uses the same spelling.
type Role string

const (
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
	RoleUnknown Role = "Unknown"
)

// ParseRole maps a stored or remote role string onto a known Role.
// Matching is case-insensitive; anything unrecognised is RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patient":
		return RolePatient
	case "doctor":
		return RoleDoctor
	default:
		return RoleUnknown
	}
}

// Known reports whether r is Patient or Doctor.
func (r Role) Known() bool { return r == RolePatient || r == RoleDoctor }

// User is the logged-in principal as the portal knows it.
// Profile carries any extra fields of the stored user object untouched.
type User struct {
	UserName string
	Role     Role
	Profile  map[string]any
}

// Session is a snapshot of the client session.
// IsAuthenticated implies User != nil. IsLoading is only true before hydration finishes.
type Session struct {
	IsAuthenticated bool
	User            *User
	Role            Role
	IsLoading       bool
	Token           string
	ExpiresAt       time.Time
}

// LoggedOut returns the settled, unauthenticated session.
func LoggedOut() Session {
	return Session{Role: RoleUnknown}
}

// DisplayName returns the user name or an empty string when logged out.
func (s Session) DisplayName() string {
	if s.User == nil {
		return ""
	}
	return s.User.UserName
}

// DeriveRole picks user.Role when known, else the stored role string, else Unknown.
func DeriveRole(u *User, stored string) Role {
	if u != nil && u.Role.Known() {
		return u.Role
	}
	return ParseRole(stored)
}
