package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a bearer token without verifying its signature.
// The portal only needs to know whether to bother sending the token; the remote API verifies it.
// ok is false when the token is not a JWT or carries no exp claim.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return time.Time{}, false
	}
	return expiresAt.Time, true
}

// TokenExpired reports whether token carries an exp claim at or before now.
// Opaque tokens never expire from the portal's point of view.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !now.Before(exp)
}
