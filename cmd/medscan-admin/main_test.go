package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscan/portal/config"
	"github.com/medscan/portal/internal/domain/nav"
)

const testToken = "opaque-token-123456"

// fakeAPI serves the handful of MedScan endpoints the admin commands call.
type fakeAPI struct {
	markedAll atomic.Int32
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authorized := r.Header.Get("Authorization") == "Bearer "+testToken
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/Auth/login":
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"userName":"amal","role":"Patient","token":"`+testToken+`","isAuth":true}`)

	case r.URL.Path == "/api/Doctor/all":
		_, _ = io.WriteString(w, `[{"id":"d1","firstName":"Nour","lastName":"Haddad","specialization":"Dermatology"}]`)

	case !authorized:
		w.WriteHeader(http.StatusUnauthorized)

	case r.Method == http.MethodGet && r.URL.Path == "/api/Notification":
		_, _ = io.WriteString(w, `[
			{"id":"n1","title":"Appointment confirmed","isRead":false,"createdAt":"2026-03-01T10:00:00"},
			{"id":"n2","title":"Scan ready","isRead":true,"createdAt":"2026-03-02T11:30:00"}
		]`)

	case r.Method == http.MethodPut && r.URL.Path == "/api/Notification/mark-all-as-read":
		f.markedAll.Add(1)

	case r.Method == http.MethodGet && r.URL.Path == "/api/Appointment":
		_, _ = io.WriteString(w, `[
			{"id":"a1","doctorName":"Nour Haddad","patientName":"Amal","appointmentDate":"2026-05-01T09:00:00","status":0},
			{"id":"a2","doctorName":"Nour Haddad","patientName":"Amal","appointmentDate":"2026-04-01T09:00:00","status":2}
		]`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testCLI struct {
	cfg config.AppConfig
	api *fakeAPI
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.AppConfig{
		Services: "http",
		API:      config.APIConfig{BaseURL: srv.URL + "/api"},
		Session: config.SessionConfig{
			Backend:  config.SessionBackendFile,
			FilePath: filepath.Join(t.TempDir(), "session.json"),
		},
	}
	cfg.Sanitize()
	return &testCLI{cfg: cfg, api: api}
}

// run executes one command the way main does and returns what it printed.
func (c *testCLI) run(t *testing.T, stdin string, name string, args ...string) (string, error) {
	t.Helper()
	cmd, ok := commands()[name]
	require.True(t, ok, "unknown command %s", name)

	var out bytes.Buffer
	err := cmd.run(&commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: c.cfg,
		Out:    &out,
		In:     strings.NewReader(stdin),
	}, args)
	return out.String(), err
}

func TestPrintUsageListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))

	out := buf.String()
	assert.Contains(t, out, "Usage: medscan-admin <command> [flags]")
	for name := range commands() {
		assert.Contains(t, out, name)
	}
	assert.Less(t, strings.Index(out, "appointments"), strings.Index(out, "whoami"))
}

func TestLoginWhoamiLogout(t *testing.T) {
	cli := newTestCLI(t)

	out, err := cli.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	out, err = cli.run(t, "", "login", "--email", "amal@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as amal (Patient)")
	assert.Contains(t, out, nav.PatientLanding)

	// A fresh process hydrates the session from the file.
	out, err = cli.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "amal")
	assert.Contains(t, out, "Patient")
	assert.Contains(t, out, "never (opaque token)")

	out, err = cli.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	out, err = cli.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestLogin_PasswordPromptAndRejection(t *testing.T) {
	cli := newTestCLI(t)
	t.Setenv("MEDSCAN_PASSWORD", "")

	out, err := cli.run(t, "wrong\n", "login", "--email", "amal@example.com")
	require.Error(t, err)
	assert.Contains(t, out, "Password: ")

	out, err = cli.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	_, err = cli.run(t, "", "login")
	require.EqualError(t, err, "--email is required")
}

func TestLogin_TerminalPasswordIsNotEchoed(t *testing.T) {
	cli := newTestCLI(t)
	t.Setenv("MEDSCAN_PASSWORD", "")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	origIsTerminal, origRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = origIsTerminal, origRead })
	isTerminal = func(int) bool { return true }
	readPassword = func(fd int) ([]byte, error) {
		assert.Equal(t, int(r.Fd()), fd)
		return []byte("secret"), nil
	}

	var out bytes.Buffer
	err = commands()["login"].run(&commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cli.cfg,
		Out:    &out,
		In:     r,
	}, []string{"--email", "amal@example.com"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.String(), "Password: \n"))
	assert.NotContains(t, out.String(), "secret")
	assert.Contains(t, out.String(), "Logged in as amal")
}

func TestSessionShowMasksToken(t *testing.T) {
	cli := newTestCLI(t)

	out, err := cli.run(t, "", "session-show")
	require.NoError(t, err)
	assert.Contains(t, out, "(no session stored)")

	_, err = cli.run(t, "", "login", "--email", "amal@example.com", "--password", "secret")
	require.NoError(t, err)

	out, err = cli.run(t, "", "session-show")
	require.NoError(t, err)
	assert.Contains(t, out, "userRole")
	assert.Contains(t, out, "opaq****")
	assert.NotContains(t, out, testToken)

	out, err = cli.run(t, "", "session-show", "--reveal-token")
	require.NoError(t, err)
	assert.Contains(t, out, testToken)
}

func TestSessionClear(t *testing.T) {
	cli := newTestCLI(t)
	_, err := cli.run(t, "", "login", "--email", "amal@example.com", "--password", "secret")
	require.NoError(t, err)

	_, err = cli.run(t, "n\n", "session-clear")
	require.EqualError(t, err, "aborted by user")

	out, err := cli.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "amal")

	out, err = cli.run(t, "y\n", "session-clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Session cleared.")

	out, err = cli.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestNotifications(t *testing.T) {
	cli := newTestCLI(t)

	_, err := cli.run(t, "", "notifications")
	require.ErrorIs(t, err, errNotLoggedIn)

	_, err = cli.run(t, "", "login", "--email", "amal@example.com", "--password", "secret")
	require.NoError(t, err)

	out, err := cli.run(t, "", "notifications", "--mark-all-read")
	require.NoError(t, err)
	assert.Contains(t, out, "Appointment confirmed")
	assert.Contains(t, out, "2026-03-02 11:30")
	assert.Contains(t, out, "Total: 2 (unread: 1)")
	assert.Equal(t, int32(1), cli.api.markedAll.Load())

	out, err = cli.run(t, "", "notifications", "--json")
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 2)
}

func TestAppointmentsFilter(t *testing.T) {
	cli := newTestCLI(t)
	_, err := cli.run(t, "", "login", "--email", "amal@example.com", "--password", "secret")
	require.NoError(t, err)

	out, err := cli.run(t, "", "appointments", "--status", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "a1")
	assert.NotContains(t, out, "a2")
	assert.Contains(t, out, "Showing 1 of 2")
}

func TestDoctorsIsPublic(t *testing.T) {
	cli := newTestCLI(t)

	out, err := cli.run(t, "", "doctors")
	require.NoError(t, err)
	assert.Contains(t, out, "Dr. Nour Haddad")
	assert.Contains(t, out, "Dermatology")
}

func TestMaskToken(t *testing.T) {
	assert.Empty(t, maskToken(""))
	assert.Equal(t, "****", maskToken("short"))
	assert.Equal(t, "abcd****", maskToken("abcdefghijk"))
}
