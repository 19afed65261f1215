package bootstrap

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/medscan/portal/internal/data/cryptoutil"
)

// CreateSealer builds the sealer that protects the stored bearer token.
// An empty key stores the token as plain text and logs a warning.
// A key that is set but malformed is an error.
//
//nolint:ireturn // Returning interface is intentional for sealer abstraction
func CreateSealer(key string, logger *slog.Logger) (cryptoutil.Sealer, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		if logger != nil {
			logger.Warn("session encryption key is empty, storing token unsealed")
		}
		return cryptoutil.PlainSealer{}, nil
	}

	raw, err := cryptoutil.ParseKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse session encryption key: %w", err)
	}
	sealer, err := cryptoutil.NewAESGCMSealer(raw)
	if err != nil {
		return nil, fmt.Errorf("create session sealer: %w", err)
	}
	return sealer, nil
}
