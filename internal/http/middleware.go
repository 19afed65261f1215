package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/gate"
	"github.com/medscan/portal/internal/observability/metrics"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionSnapshotter is the read side of the session the gate consults.
type SessionSnapshotter interface {
	Snapshot() domainauth.Session
}

// GateOptions configures RequireSession.
type GateOptions struct {
	Session SessionSnapshotter // Required
	Metrics *metrics.Portal    // Optional
}

// loadingPage is served to browsers while the session is still hydrating.
const loadingPage = `<!doctype html>
<html lang="en"><head><meta charset="utf-8"><meta http-equiv="refresh" content="1"><title>MedScan</title></head>
<body><p class="loading">Loading...</p></body></html>
`

// RequireSession gates a handler on the current session snapshot.
//
// While hydration is running the request is neither admitted nor redirected:
// browsers get a self-refreshing placeholder and API clients get 503 with Retry-After.
// A settled logged-out session redirects browsers to /login and answers API clients with 401.
// Admitted requests carry the snapshot in their context.
func RequireSession(opts GateOptions) func(http.Handler) http.Handler {
	if opts.Session == nil {
		panic("RequireSession requires a Session")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := opts.Session.Snapshot()
			decision := gate.Decide(snap)
			browser := IsBrowserRequest(r)
			opts.Metrics.ObserveGate(decision.String(), clientKind(browser))

			switch decision {
			case gate.Loading:
				writeLoading(w, browser)
			case gate.Denied:
				if browser {
					redirectToLogin(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			case gate.Granted:
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), snap)))
			}
		})
	}
}

// RequireRole restricts an already gated handler to the listed roles.
// It must run inside RequireSession.
func RequireRole(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok || !gate.Allows(sess.Role, roles...) {
				if IsBrowserRequest(r) {
					showAccessDenied(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeLoading(w http.ResponseWriter, browser bool) {
	w.Header().Set("Cache-Control", "no-store")
	if browser {
		w.Header().Set("Refresh", "1")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, loadingPage)
		return
	}
	w.Header().Set("Retry-After", "1")
	WriteError(w, ErrorParams{
		Code:    http.StatusServiceUnavailable,
		ErrCode: "session_loading",
		Err:     errors.New("session is still loading"),
	})
}

func clientKind(browser bool) string {
	if browser {
		return "browser"
	}
	return "api"
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that records whether a request came from a browser
// so downstream handlers can choose between HTML and JSON.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats /api/ paths as API calls and everything else by its Accept header.
// A missing Accept header on a page route counts as a browser.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// redirectToLogin sends the browser to /login, remembering where it was headed.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := safeRedirectPath(r.URL.RequestURI())
	http.Redirect(w, r, "/login?redirect_uri="+url.QueryEscape(target), http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}

func showAccessDenied(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Access Denied: you do not have permission to view this page", http.StatusForbidden)
}
