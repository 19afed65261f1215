// Package testutil provides shared helpers for portal tests.
package testutil

import (
	"io"
	"log/slog"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// SetupTestRedis starts an in-process Redis and returns it with a connected client.
// Both are shut down when the test ends.
func SetupTestRedis(t TestingTB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: close redis client: %v", err)
		}
	})
	return mr, client
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FixedTimeFunc returns a clock that always reports t.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

// TestTime returns the reference time used across service and handler tests.
func TestTime() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}
