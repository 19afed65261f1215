package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName holds the double-submit token; forms echo it in a field of the same name.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName carries the token for JSON API calls.
	CSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes = 32
	csrfCookieTTL  = 12 * 3600
)

var errCSRFMismatch = errors.New("the form has expired; reload the page and try again")

// CSRFOptions configures CSRFProtection.
type CSRFOptions struct {
	Logger *slog.Logger
	// Rand defaults to crypto/rand.Read.
	Rand func([]byte) (int, error)
}

// CSRFProtection guards every state-changing request with a double-submit cookie.
// Safe methods get a token cookie when they lack one. POST, PUT, PATCH and DELETE
// must echo the cookie value in the X-Csrf-Token header or the csrf_token form field,
// otherwise they are rejected with 403 before reaching the handler.
func CSRFProtection(opts CSRFOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	read := opts.Rand
	if read == nil {
		read = rand.Read
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookie(r)

			if unsafeMethod(r.Method) {
				if !csrfMatches(w, r, token) {
					logger.WarnContext(r.Context(), "csrf check failed",
						"method", r.Method,
						"path", r.URL.Path,
						"origin", r.Header.Get("Origin"),
					)
					if IsBrowserRequest(r) {
						http.Error(w, errCSRFMismatch.Error(), http.StatusForbidden)
						return
					}
					WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "csrf_failed", Err: errCSRFMismatch})
					return
				}
			} else if token == "" {
				var err error
				if token, err = newCSRFToken(read); err != nil {
					logger.ErrorContext(r.Context(), "csrf token generation failed", "error", err)
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					Secure:   requestIsHTTPS(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   csrfCookieTTL,
				})
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token)))
		})
	}
}

func unsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func csrfCookie(r *http.Request) string {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func newCSRFToken(read func([]byte) (int, error)) (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// csrfMatches compares the submitted token with the cookie in constant time.
// Multipart bodies are parsed under the upload limit so the scan handler can reuse the form.
func csrfMatches(w http.ResponseWriter, r *http.Request, cookie string) bool {
	if cookie == "" {
		return false
	}
	submitted := r.Header.Get(CSRFHeaderName)
	if submitted == "" {
		ct := r.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(ct, "multipart/form-data"):
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				return false
			}
		case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
			if err := r.ParseForm(); err != nil {
				return false
			}
		default:
			return false
		}
		submitted = r.PostFormValue(CSRFCookieName)
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(cookie)) == 1
}

// requestIsHTTPS also honours X-Forwarded-Proto lists such as "https,http".
func requestIsHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

type csrfTokenKey struct{}

// CSRFToken returns the token forms must echo back, or "" outside CSRFProtection.
func CSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
