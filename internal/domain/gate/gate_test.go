package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medscan/portal/internal/domain/auth"
)

func TestDecide(t *testing.T) {
	user := &auth.User{UserName: "alice"}

	tests := []struct {
		name    string
		session auth.Session
		want    Decision
	}{
		{"loading and logged out", auth.Session{IsLoading: true}, Loading},
		{"loading wins over authenticated", auth.Session{IsLoading: true, IsAuthenticated: true, User: user}, Loading},
		{"settled logged out", auth.LoggedOut(), Denied},
		{"settled authenticated", auth.Session{IsAuthenticated: true, User: user}, Granted},
		{"authenticated without user is denied", auth.Session{IsAuthenticated: true}, Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.session))
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "granted", Granted.String())
	assert.Equal(t, "unknown", Decision(42).String())
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(auth.RolePatient))
	assert.True(t, Allows(auth.RoleDoctor, auth.RoleDoctor))
	assert.False(t, Allows(auth.RolePatient, auth.RoleDoctor))
	assert.False(t, Allows(auth.RoleUnknown, auth.RoleDoctor, auth.RolePatient))
}
