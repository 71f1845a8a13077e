package service

import (
	"context"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/pkg/utils"
)

// LecturerInput carries the fields for creating or updating a lecturer record.
type LecturerInput struct {
	FullName          string
	IDNumber          string
	Email             string
	DefaultHourlyRate float64
	BankName          string
	BankAccountNumber string
}

// LecturerService manages the contracted lecturer reference data that claim
// creation prefills from.
type LecturerService interface {
	CreateLecturer(ctx context.Context, input LecturerInput) (*entity.Lecturer, error)
	UpdateLecturer(ctx context.Context, id int64, input LecturerInput) (*entity.Lecturer, error)
	GetLecturer(ctx context.Context, id int64) (*entity.Lecturer, error)
	ListLecturers(ctx context.Context) ([]*entity.Lecturer, error)
	DeleteLecturer(ctx context.Context, id int64) error
}

type lecturerServiceImpl struct {
	lecturerRepo port.LecturerRepository
	logger       Logger
}

// NewLecturerService creates a new LecturerService
func NewLecturerService(lecturerRepo port.LecturerRepository, logger Logger) LecturerService {
	return &lecturerServiceImpl{
		lecturerRepo: lecturerRepo,
		logger:       logger,
	}
}

// CreateLecturer validates and persists a new lecturer record
func (s *lecturerServiceImpl) CreateLecturer(ctx context.Context, input LecturerInput) (*entity.Lecturer, error) {
	if err := validateLecturerInput(input); err != nil {
		return nil, err
	}

	lecturer := &entity.Lecturer{
		FullName:          input.FullName,
		IDNumber:          input.IDNumber,
		Email:             input.Email,
		DefaultHourlyRate: input.DefaultHourlyRate,
		BankName:          input.BankName,
		BankAccountNumber: input.BankAccountNumber,
	}
	if err := s.lecturerRepo.Create(ctx, lecturer); err != nil {
		s.logger.Error("Failed to create lecturer", "error", err, "email", input.Email)
		return nil, err
	}

	s.logger.Info("Lecturer created", "id", lecturer.ID, "email", lecturer.Email)
	return lecturer, nil
}

// UpdateLecturer rewrites an existing lecturer record
func (s *lecturerServiceImpl) UpdateLecturer(ctx context.Context, id int64, input LecturerInput) (*entity.Lecturer, error) {
	if err := validateLecturerInput(input); err != nil {
		return nil, err
	}

	lecturer, err := s.lecturerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lecturer.FullName = input.FullName
	lecturer.IDNumber = input.IDNumber
	lecturer.Email = input.Email
	lecturer.DefaultHourlyRate = input.DefaultHourlyRate
	lecturer.BankName = input.BankName
	lecturer.BankAccountNumber = input.BankAccountNumber

	if err := s.lecturerRepo.Update(ctx, lecturer); err != nil {
		s.logger.Error("Failed to update lecturer", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Lecturer updated", "id", id)
	return lecturer, nil
}

// GetLecturer retrieves one lecturer record
func (s *lecturerServiceImpl) GetLecturer(ctx context.Context, id int64) (*entity.Lecturer, error) {
	lecturer, err := s.lecturerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get lecturer", "error", err, "id", id)
		return nil, err
	}
	return lecturer, nil
}

// ListLecturers retrieves every lecturer record
func (s *lecturerServiceImpl) ListLecturers(ctx context.Context) ([]*entity.Lecturer, error) {
	lecturers, err := s.lecturerRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list lecturers", "error", err)
		return nil, err
	}
	return lecturers, nil
}

// DeleteLecturer removes a lecturer record. Existing claims keep their copied
// name and rate; only the prefill source disappears.
func (s *lecturerServiceImpl) DeleteLecturer(ctx context.Context, id int64) error {
	if err := s.lecturerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete lecturer", "error", err, "id", id)
		return err
	}

	s.logger.Info("Lecturer deleted", "id", id)
	return nil
}

// validateLecturerInput checks the reference-data bounds. The contracted rate
// must itself be a legal claim rate, or every prefilled claim would fail
// validation.
func validateLecturerInput(input LecturerInput) error {
	verr := &entity.ValidationError{}

	if input.FullName == "" {
		verr.Add("full name is required")
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		verr.Add("a valid email is required")
	}
	if input.DefaultHourlyRate < entity.MinHourlyRate || input.DefaultHourlyRate > entity.MaxHourlyRate {
		verr.Add("default hourly rate must be between %.0f and %.0f", entity.MinHourlyRate, entity.MaxHourlyRate)
	}

	if verr.HasProblems() {
		return verr
	}
	return nil
}
