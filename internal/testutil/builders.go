package testutil

import (
	"time"

	"github.com/medscan/portal/internal/domain/model"
)

// AppointmentBuilder provides a fluent interface for building appointments in tests.
type AppointmentBuilder struct {
	appt model.Appointment
}

// NewAppointment creates a pending appointment with sensible defaults.
func NewAppointment(id string) *AppointmentBuilder {
	return &AppointmentBuilder{
		appt: model.Appointment{
			ID:              model.ID(id),
			DoctorID:        "d-1",
			DoctorName:      "Nour Haddad",
			AppointmentDate: model.Timestamp{Time: TestTime()},
			Status:          model.AppointmentPending,
		},
	}
}

// WithPatient sets the patient name and a patient reference derived from key.
func (b *AppointmentBuilder) WithPatient(key, name string) *AppointmentBuilder {
	b.appt.PatientID = model.ID("p-" + key)
	b.appt.PatientName = name
	b.appt.Patient = &model.PatientRef{
		ID:        model.ID("p-" + key),
		FirstName: name,
		Email:     key + "@example.com",
	}
	return b
}

// At sets the appointment time.
func (b *AppointmentBuilder) At(at time.Time) *AppointmentBuilder {
	b.appt.AppointmentDate = model.Timestamp{Time: at}
	return b
}

// WithStatus sets the appointment status.
func (b *AppointmentBuilder) WithStatus(status model.AppointmentStatus) *AppointmentBuilder {
	b.appt.Status = status
	return b
}

// WithType sets the appointment type label.
func (b *AppointmentBuilder) WithType(kind string) *AppointmentBuilder {
	b.appt.AppointmentType = kind
	return b
}

// NewPatient marks the appointment as the patient's first visit.
func (b *AppointmentBuilder) NewPatient() *AppointmentBuilder {
	b.appt.IsNewPatient = true
	return b
}

// Build returns the appointment.
func (b *AppointmentBuilder) Build() model.Appointment {
	return b.appt
}

// NotificationBuilder provides a fluent interface for building notifications in tests.
type NotificationBuilder struct {
	n model.Notification
}

// NewNotification creates an unread notification.
func NewNotification(id, title string) *NotificationBuilder {
	return &NotificationBuilder{
		n: model.Notification{
			ID:        model.ID(id),
			Title:     title,
			CreatedAt: model.Timestamp{Time: TestTime()},
		},
	}
}

// Read marks the notification as read.
func (b *NotificationBuilder) Read() *NotificationBuilder {
	b.n.IsRead = true
	return b
}

// WithBody sets the notification body.
func (b *NotificationBuilder) WithBody(body string) *NotificationBuilder {
	b.n.Body = body
	return b
}

// Build returns the notification.
func (b *NotificationBuilder) Build() model.Notification {
	return b.n
}

// Notifications builds each builder in order.
func Notifications(builders ...*NotificationBuilder) []model.Notification {
	out := make([]model.Notification, 0, len(builders))
	for _, b := range builders {
		out = append(out, b.Build())
	}
	return out
}
