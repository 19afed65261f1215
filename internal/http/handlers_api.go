package httpx

import (
	"errors"
	"net/http"
	"time"

	domainauth "github.com/medscan/portal/internal/domain/auth"
	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/domain/nav"
	"github.com/medscan/portal/internal/service"
)

// APIHandlers serves the JSON endpoints under /api/.
type APIHandlers struct {
	Session       SessionSnapshotter
	Notifications NotificationsService
}

type sessionUserJSON struct {
	UserName string         `json:"userName"`
	Role     string         `json:"role"`
	Profile  map[string]any `json:"profile,omitempty"`
}

type menuItemJSON struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// sessionJSON is the public view of the session. The bearer token is never included.
type sessionJSON struct {
	IsAuthenticated    bool             `json:"isAuthenticated"`
	IsLoading          bool             `json:"isLoading"`
	Role               string           `json:"role"`
	User               *sessionUserJSON `json:"user"`
	ExpiresAt          *time.Time       `json:"expiresAt,omitempty"`
	Menu               []menuItemJSON   `json:"menu"`
	ProfileLandingPath string           `json:"profileLandingPath"`
}

func newSessionJSON(s domainauth.Session) sessionJSON {
	navigation := nav.ForRole(s.Role)
	out := sessionJSON{
		IsAuthenticated:    s.IsAuthenticated,
		IsLoading:          s.IsLoading,
		Role:               string(s.Role),
		Menu:               make([]menuItemJSON, 0, len(navigation.MenuItems)),
		ProfileLandingPath: navigation.ProfileLandingPath,
	}
	if s.User != nil {
		out.User = &sessionUserJSON{UserName: s.User.UserName, Role: string(s.User.Role), Profile: s.User.Profile}
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt.UTC()
		out.ExpiresAt = &exp
	}
	for _, item := range navigation.MenuItems {
		out.Menu = append(out.Menu, menuItemJSON{Label: item.Label, Path: item.Path})
	}
	return out
}

// GetSession reports the session state. It is public so clients can poll for hydration.
// GET /api/session.
func (h *APIHandlers) GetSession(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, newSessionJSON(h.Session.Snapshot()))
}

type notificationsJSON struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
	Loading       bool                 `json:"loading"`
	LastError     string               `json:"lastError,omitempty"`
	LastFetchedAt *time.Time           `json:"lastFetchedAt,omitempty"`
}

func newNotificationsJSON(s service.NotificationSnapshot) notificationsJSON {
	out := notificationsJSON{
		Notifications: s.Notifications,
		UnreadCount:   s.UnreadCount,
		Loading:       s.Loading,
	}
	if out.Notifications == nil {
		out.Notifications = []model.Notification{}
	}
	if s.LastError != nil {
		out.LastError = UserMessage(s.LastError)
	}
	if !s.LastFetchedAt.IsZero() {
		at := s.LastFetchedAt.UTC()
		out.LastFetchedAt = &at
	}
	return out
}

// ListNotifications returns the cached notifications and unread count.
// GET /api/notifications.
func (h *APIHandlers) ListNotifications(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, newNotificationsJSON(h.Notifications.Snapshot()))
}

// RefreshNotifications fetches immediately instead of waiting for the next tick.
// POST /api/notifications/refresh.
func (h *APIHandlers) RefreshNotifications(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.Notifications.Refresh(r.Context()))
}

// MarkNotificationRead marks one notification read.
// POST /api/notifications/{id}/read.
func (h *APIHandlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.Notifications.MarkAsRead(r.Context(), model.ID(r.PathValue("id"))))
}

// MarkAllNotificationsRead marks every notification read.
// POST /api/notifications/read-all.
func (h *APIHandlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.Notifications.MarkAllAsRead(r.Context()))
}

// DeleteNotification removes one notification.
// DELETE /api/notifications/{id}.
func (h *APIHandlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.Notifications.Delete(r.Context(), model.ID(r.PathValue("id"))))
}

// respond writes the post-mutation snapshot, or the error. A failed optimistic
// mutation has already been reverted, so the client should re-read the list.
func (h *APIHandlers) respond(w http.ResponseWriter, err error) {
	if err != nil {
		if service.IsInactive(err) {
			WriteError(w, ErrorParams{
				Code:    http.StatusConflict,
				ErrCode: "notifications_inactive",
				Err:     errors.New("notifications are not active for this session"),
			})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, newNotificationsJSON(h.Notifications.Snapshot()))
}
