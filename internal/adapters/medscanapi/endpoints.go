package medscanapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/medscan/portal/internal/domain/model"
)

// Login posts credentials to /Auth/login.
func (cl *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	var out model.LoginResponse
	err := cl.do(ctx, call{op: "login", method: http.MethodPost, path: "/Auth/login", body: req, out: &out})
	return out, err
}

// Register posts a new account to /Auth/register.
func (cl *Client) Register(ctx context.Context, req model.RegisterPayload) (model.APIResponse, error) {
	var out model.APIResponse
	err := cl.do(ctx, call{op: "register", method: http.MethodPost, path: "/Auth/register", body: req, out: &out})
	return out, err
}

func (cl *Client) RequestPasswordReset(ctx context.Context, req model.PasswordResetRequest) error {
	return cl.do(ctx, call{
		op:     "request_password_reset",
		method: http.MethodPost,
		path:   "/Auth/request-password-reset",
		body:   req,
	})
}

func (cl *Client) VerifyResetCode(ctx context.Context, req model.VerifyResetCodeRequest) error {
	return cl.do(ctx, call{
		op:     "verify_reset_code",
		method: http.MethodPost,
		path:   "/Auth/verify-reset-code",
		body:   req,
	})
}

func (cl *Client) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	return cl.do(ctx, call{
		op:     "reset_password",
		method: http.MethodPost,
		path:   "/Auth/reset-password",
		body:   req,
	})
}

// ListNotifications returns the user's notifications; a null body is an empty list.
func (cl *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var out []model.Notification
	err := cl.do(ctx, call{op: "list_notifications", method: http.MethodGet, path: "/Notification", out: &out, auth: true})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Notification{}
	}
	return out, nil
}

func (cl *Client) MarkNotificationRead(ctx context.Context, id model.ID) error {
	return cl.do(ctx, call{
		op:     "mark_notification_read",
		method: http.MethodPut,
		path:   "/Notification/" + url.PathEscape(id.String()) + "/mark-as-read",
		auth:   true,
	})
}

func (cl *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return cl.do(ctx, call{
		op:     "mark_all_notifications_read",
		method: http.MethodPut,
		path:   "/Notification/mark-all-as-read",
		auth:   true,
	})
}

func (cl *Client) DeleteNotification(ctx context.Context, id model.ID) error {
	return cl.do(ctx, call{
		op:     "delete_notification",
		method: http.MethodDelete,
		path:   "/Notification/" + url.PathEscape(id.String()),
		auth:   true,
	})
}

func (cl *Client) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	err := cl.do(ctx, call{op: "list_appointments", method: http.MethodGet, path: "/Appointment", out: &out, auth: true})
	return out, err
}

func (cl *Client) CreateAppointment(ctx context.Context, req model.CreateAppointment) error {
	return cl.do(ctx, call{op: "create_appointment", method: http.MethodPost, path: "/Appointment", body: req, auth: true})
}

func (cl *Client) UpdateAppointmentStatus(ctx context.Context, id model.ID, status model.AppointmentStatus) error {
	body := struct {
		Status model.AppointmentStatus `json:"status"`
	}{Status: status}
	return cl.do(ctx, call{
		op:     "update_appointment_status",
		method: http.MethodPut,
		path:   "/Appointment/" + url.PathEscape(id.String()) + "/status",
		body:   body,
		auth:   true,
	})
}

func (cl *Client) DeleteAppointment(ctx context.Context, id model.ID) error {
	return cl.do(ctx, call{
		op:     "delete_appointment",
		method: http.MethodDelete,
		path:   "/Appointment/" + url.PathEscape(id.String()),
		auth:   true,
	})
}

// ListDoctors is public; no token is sent.
func (cl *Client) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	var out []model.Doctor
	err := cl.do(ctx, call{op: "list_doctors", method: http.MethodGet, path: "/Doctor/all", out: &out})
	return out, err
}

func (cl *Client) GetProfile(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := cl.do(ctx, call{op: "get_profile", method: http.MethodGet, path: "/User/profile", out: &out, auth: true})
	return out, err
}

func (cl *Client) UpdateProfile(ctx context.Context, p model.Profile) error {
	return cl.do(ctx, call{op: "update_profile", method: http.MethodPut, path: "/User/profile", body: p, auth: true})
}

func (cl *Client) GetClinicInfo(ctx context.Context) (model.ClinicInfo, error) {
	var out model.ClinicInfo
	err := cl.do(ctx, call{op: "get_clinic_info", method: http.MethodGet, path: "/ClinicInfo/my-info", out: &out, auth: true})
	return out, err
}

func (cl *Client) UpdateClinicInfo(ctx context.Context, c model.ClinicInfoUpdate) error {
	return cl.do(ctx, call{op: "update_clinic_info", method: http.MethodPut, path: "/ClinicInfo/my-info", body: c, auth: true})
}
