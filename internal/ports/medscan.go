package ports

import (
	"context"

	"github.com/medscan/portal/internal/domain/model"
)

// AuthAPI covers the remote account endpoints. None of them need a token.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterPayload) (model.APIResponse, error)
	RequestPasswordReset(ctx context.Context, req model.PasswordResetRequest) error
	VerifyResetCode(ctx context.Context, req model.VerifyResetCodeRequest) error
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error
}

// NotificationAPI is the remote notification collaborator.
type NotificationAPI interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id model.ID) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id model.ID) error
}

// AppointmentAPI manages appointments for the logged-in patient or doctor.
type AppointmentAPI interface {
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	CreateAppointment(ctx context.Context, req model.CreateAppointment) error
	UpdateAppointmentStatus(ctx context.Context, id model.ID, status model.AppointmentStatus) error
	DeleteAppointment(ctx context.Context, id model.ID) error
}

// DoctorAPI lists doctors; it is public.
type DoctorAPI interface {
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
}

// ProfileAPI reads and updates the logged-in user's profile.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (model.Profile, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
}

// ClinicAPI reads and updates the logged-in doctor's clinic record.
type ClinicAPI interface {
	GetClinicInfo(ctx context.Context) (model.ClinicInfo, error)
	UpdateClinicInfo(ctx context.Context, c model.ClinicInfoUpdate) error
}

// ScanAPI submits an image to the inference service.
type ScanAPI interface {
	SubmitScan(ctx context.Context, req model.ScanRequest) (model.ScanResult, error)
}
