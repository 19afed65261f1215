package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net"
	"net/http"
	"slices"
	"strings"
)

// maxRemoteMessageLen bounds how much of a remote error body is surfaced to users.
const maxRemoteMessageLen = 512

// MapTransportError maps a failure to reach the remote API to an AppError.
// It handles:
// - context.Canceled → Canceled
// - context.DeadlineExceeded and net timeouts → Timeout
// - anything else → Network.
func MapTransportError(err error, op string) *AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return Wrapf(err, ErrCodeCanceled, "%s canceled", op)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return Wrapf(err, ErrCodeTimeout, "%s timed out", op)
	}

	return Wrapf(err, ErrCodeNetwork, "%s failed", op)
}

// remoteErrorBody covers the error payload shapes the remote API produces:
// plain {message}, {error}, and ASP.NET problem details {title, errors}.
type remoteErrorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Title   string              `json:"title"`
	Errors  map[string][]string `json:"errors"`
}

// FromResponse builds a RemoteRejection (or Unauthenticated for 401) from a non-2xx answer.
// The server's message field is preferred; otherwise the raw body text is used verbatim.
func FromResponse(status int, body []byte) *AppError {
	msg := remoteMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}

	if status == http.StatusUnauthorized {
		return &AppError{Code: ErrCodeUnauthenticated, Message: msg, Status: status}
	}
	return RemoteRejection(status, msg)
}

func remoteMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var parsed remoteErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return truncate(parsed.Message)
		case parsed.Error != "":
			return truncate(parsed.Error)
		case len(parsed.Errors) > 0:
			return truncate(joinFieldErrors(parsed.Errors))
		case parsed.Title != "":
			return truncate(parsed.Title)
		}
	}

	// A JSON string body is a message in quotes.
	var quoted string
	if err := json.Unmarshal(body, &quoted); err == nil {
		return truncate(quoted)
	}

	return truncate(text)
}

func joinFieldErrors(fields map[string][]string) string {
	parts := make([]string, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, fields[key]...)
	}
	return strings.Join(parts, "; ")
}

func truncate(s string) string {
	if len(s) <= maxRemoteMessageLen {
		return s
	}
	return s[:maxRemoteMessageLen]
}
