package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medscan/portal/internal/domain/model"
	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/ports"
)

// AppointmentServiceOptions groups dependencies for AppointmentService.
type AppointmentServiceOptions struct {
	API    ports.AppointmentAPI // Required
	Logger *slog.Logger         // Optional
	Now    func() time.Time     // Optional, defaults to time.Now
}

// AppointmentService books and manages appointments for patients and doctors.
type AppointmentService struct {
	api    ports.AppointmentAPI
	logger *slog.Logger
	now    func() time.Time
}

// NewAppointmentService constructs a new AppointmentService.
func NewAppointmentService(opts AppointmentServiceOptions) *AppointmentService {
	if opts.API == nil {
		panic("AppointmentService requires an API")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{api: opts.API, logger: logger.With("component", "appointments"), now: now}
}

// List returns the logged-in user's appointments; nil from the API is an empty list.
func (s *AppointmentService) List(ctx context.Context) ([]model.Appointment, error) {
	list, err := s.api.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if list == nil {
		list = []model.Appointment{}
	}
	return list, nil
}

// Book validates the booking form and creates the appointment.
func (s *AppointmentService) Book(ctx context.Context, req model.BookingRequest) error {
	if err := model.Validate(req); err != nil {
		return err
	}
	payload := req.Payload()
	if err := s.api.CreateAppointment(ctx, payload); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	s.logger.InfoContext(ctx, "appointment booked", "doctor_id", payload.DoctorID, "at", payload.AppointmentDate)
	return nil
}

// UpdateStatus moves an appointment to pending, confirmed or completed.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id model.ID, status model.AppointmentStatus) error {
	if id == "" {
		return apperrors.ValidationField("id", "appointment id is required")
	}
	if !status.Valid() {
		return apperrors.ValidationField("status", "status must be pending, confirmed or completed")
	}
	if err := s.api.UpdateAppointmentStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}

// Delete cancels an appointment.
func (s *AppointmentService) Delete(ctx context.Context, id model.ID) error {
	if id == "" {
		return apperrors.ValidationField("id", "appointment id is required")
	}
	if err := s.api.DeleteAppointment(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// Filter applies the schedule search relative to now.
func (s *AppointmentService) Filter(list []model.Appointment, f model.AppointmentFilter) []model.Appointment {
	return f.Apply(list, s.now())
}

// Dashboard fetches appointments and summarises them for the doctor dashboard.
func (s *AppointmentService) Dashboard(ctx context.Context) (model.Dashboard, error) {
	list, err := s.List(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	return model.BuildDashboard(list, s.now()), nil
}

// Patients groups the doctor's appointments by patient, then filters and sorts.
func (s *AppointmentService) Patients(ctx context.Context, search string, by model.PatientSort) ([]model.PatientSummary, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	patients := model.FilterPatients(model.SummarisePatients(list, s.now()), search)
	model.SortPatients(patients, by)
	return patients, nil
}
