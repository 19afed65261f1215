package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medscan/portal/internal/domain/model"
	"github.com/medscan/portal/internal/ports"
)

// DirectoryServiceOptions groups dependencies for DirectoryService.
type DirectoryServiceOptions struct {
	Doctors ports.DoctorAPI  // Required
	Profile ports.ProfileAPI // Required
	Clinic  ports.ClinicAPI  // Required
}

// DirectoryService serves the doctor listing, the user's own profile and the doctor's clinic record.
type DirectoryService struct {
	doctors ports.DoctorAPI
	profile ports.ProfileAPI
	clinic  ports.ClinicAPI
	logger  *slog.Logger
}

// NewDirectoryService constructs a new DirectoryService.
func NewDirectoryService(opts DirectoryServiceOptions) *DirectoryService {
	if opts.Doctors == nil || opts.Profile == nil || opts.Clinic == nil {
		panic("DirectoryService requires Doctors, Profile and Clinic APIs")
	}
	return &DirectoryService{
		doctors: opts.Doctors,
		profile: opts.Profile,
		clinic:  opts.Clinic,
		logger:  slog.Default().With("component", "directory"),
	}
}

// Doctors lists every doctor. It is public.
func (s *DirectoryService) Doctors(ctx context.Context) ([]model.Doctor, error) {
	list, err := s.doctors.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	if list == nil {
		list = []model.Doctor{}
	}
	return list, nil
}

// Profile returns the logged-in user's profile.
func (s *DirectoryService) Profile(ctx context.Context) (model.Profile, error) {
	p, err := s.profile.GetProfile(ctx)
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile validates and saves the profile.
func (s *DirectoryService) UpdateProfile(ctx context.Context, p model.Profile) error {
	if err := model.Validate(p); err != nil {
		return err
	}
	if err := s.profile.UpdateProfile(ctx, p); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// ClinicInfo returns the doctor's clinic record. It always carries at least one working day row.
func (s *DirectoryService) ClinicInfo(ctx context.Context) (model.ClinicInfo, error) {
	info, err := s.clinic.GetClinicInfo(ctx)
	if err != nil {
		return model.ClinicInfo{}, fmt.Errorf("get clinic info: %w", err)
	}
	if len(info.WorkingDays) == 0 {
		info.WorkingDays = []model.WorkingDay{{}}
	}
	return info, nil
}

// UpdateClinicInfo validates and saves the clinic record; the address is sent as location.
func (s *DirectoryService) UpdateClinicInfo(ctx context.Context, info model.ClinicInfo) error {
	if err := model.Validate(info); err != nil {
		return err
	}
	if err := s.clinic.UpdateClinicInfo(ctx, info.UpdatePayload()); err != nil {
		return fmt.Errorf("update clinic info: %w", err)
	}
	s.logger.InfoContext(ctx, "clinic info updated", "clinic", info.ClinicName)
	return nil
}
