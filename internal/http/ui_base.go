package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/domain/nav"
	"github.com/medscan/portal/internal/http/ui/viewmodel"
	"github.com/medscan/portal/internal/service"
)

// AccountService is the account surface the login, sign-up and reset pages need.
type AccountService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword, confirm string) error
	Logout(ctx context.Context) error
}

// AppointmentsService is a minimal interface for booking and schedule pages.
type AppointmentsService interface {
	List(ctx context.Context) ([]model.Appointment, error)
	Book(ctx context.Context, req model.BookingRequest) error
	UpdateStatus(ctx context.Context, id model.ID, status model.AppointmentStatus) error
	Delete(ctx context.Context, id model.ID) error
	Filter(list []model.Appointment, f model.AppointmentFilter) []model.Appointment
	Dashboard(ctx context.Context) (model.Dashboard, error)
	Patients(ctx context.Context, search string, by model.PatientSort) ([]model.PatientSummary, error)
}

// DirectoryService is a minimal interface for doctor listings, profiles and clinic info.
type DirectoryService interface {
	Doctors(ctx context.Context) ([]model.Doctor, error)
	Profile(ctx context.Context) (model.Profile, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
	ClinicInfo(ctx context.Context) (model.ClinicInfo, error)
	UpdateClinicInfo(ctx context.Context, info model.ClinicInfo) error
}

// ScanFlows is the scan upload surface.
type ScanFlows interface {
	Submit(ctx context.Context, req model.ScanRequest) (model.ScanResult, error)
	Last() (model.ScanResult, bool)
}

// NotificationsService exposes the poller's cache and mutations.
type NotificationsService interface {
	Snapshot() service.NotificationSnapshot
	Refresh(ctx context.Context) error
	MarkAsRead(ctx context.Context, id model.ID) error
	MarkAllAsRead(ctx context.Context) error
	Delete(ctx context.Context, id model.ID) error
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AccountService       = (*service.AuthService)(nil)
	_ AppointmentsService  = (*service.AppointmentService)(nil)
	_ DirectoryService     = (*service.DirectoryService)(nil)
	_ ScanFlows            = (*service.ScanService)(nil)
	_ NotificationsService = (*service.NotificationService)(nil)
	_ SessionSnapshotter   = (*service.SessionService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T             *TemplateRenderer
	Session       SessionSnapshotter
	Notifications NotificationsService // optional; the badge is hidden without it
	Accounts      AccountService
	Appointments  AppointmentsService
	Directory     DirectoryService
	Scans         ScanFlows
	IsDev         bool // Development mode flag for enhanced error reporting
	Logger        *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// session returns the gate-admitted snapshot when present, else the live one.
// Public pages are not gated but still show the logged-in chrome.
func (h *UIHandlers) session(r *http.Request) domainauth.Session {
	if s, ok := GetSessionFromContext(r.Context()); ok {
		return s
	}
	if h.Session == nil {
		return domainauth.LoggedOut()
	}
	return h.Session.Snapshot()
}

// buildLayout constructs shared layout metadata from the session.
func (h *UIHandlers) buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	sess := h.session(r)
	navigation := nav.ForRole(sess.Role)
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		Menu:        viewmodel.MenuFrom(navigation, r.URL.Path),
		ProfilePath: navigation.ProfileLandingPath,
		CSRFToken:   CSRFToken(r),
	}

	if sess.IsAuthenticated && sess.User != nil {
		layout.IsAuthenticated = true
		layout.IsDoctor = sess.Role == domainauth.RoleDoctor
		layout.User = &viewmodel.User{UserName: sess.User.UserName, Role: string(sess.Role)}
		if h.Notifications != nil {
			layout.UnreadCount = h.Notifications.Snapshot().UnreadCount
		}
	}

	return layout
}

// basePageData constructs the common page data map.
func (h *UIHandlers) basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := h.buildLayout(r, meta)
	data := map[string]any{
		"Layout":      layout,
		"Title":       layout.Title,
		"PageTitle":   layout.PageTitle,
		"CurrentPage": layout.CurrentPage,
	}
	if msg := flashMessage(r.URL.Query().Get("ok")); msg != "" {
		data["Flash"] = msg
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// A failed fetch still renders the page with the error shown in place of the content.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := h.basePageData(r, spec.Meta)
	status := http.StatusOK
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().WarnContext(r.Context(), "page fetch failed",
				"page", spec.Meta.CurrentPage,
				"error", err,
			)
			data["Error"] = UserMessage(err)
			status = StatusForError(err)
		}
	}
	h.render(w, r, status, data)
}

// renderForm re-renders a page after a failed form submission, keeping the user's input.
func (h *UIHandlers) renderForm(w http.ResponseWriter, r *http.Request, meta PageMeta, form map[string]any, err error) {
	data := h.basePageData(r, meta)
	for k, v := range form {
		data[k] = v
	}
	status := http.StatusOK
	if err != nil {
		data["Error"] = UserMessage(err)
		status = StatusForError(err)
	}
	h.render(w, r, status, data)
}

func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if err := h.T.RenderFull(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// NotFound renders the not-found page with a 404 status.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "not found"})
		return
	}
	data := h.basePageData(r, PageMeta{Title: "Not Found", PageTitle: "Page not found", CurrentPage: PageNotFound})
	h.render(w, r, http.StatusNotFound, data)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().Error("template rendering failed",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<h2>Template Rendering Error</h2><pre>` +
			html.EscapeString(err.Error()) + `</pre>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// flash keys set on redirects after a successful form post.
//
//nolint:gochecknoglobals // static read-only lookup
var flashMessages = map[string]string{
	"registered":     "Account created successfully! Please log in.",
	"password-reset": "Your password has been reset. Please log in.",
	"booked":         "Appointment booked successfully!",
	"status":         "Appointment status updated.",
	"deleted":        "Appointment deleted.",
	"profile":        "Profile updated successfully!",
	"clinic":         "Clinic information saved.",
	"logged-out":     "You have been logged out.",
}

func flashMessage(key string) string {
	return flashMessages[key]
}

// seeOther redirects after a successful POST, attaching a flash key.
func seeOther(w http.ResponseWriter, r *http.Request, path, flash string) {
	if flash != "" {
		path += "?ok=" + flash
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
