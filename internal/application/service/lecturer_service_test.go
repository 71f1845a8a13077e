package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tmabena/claimflow/internal/domain/entity"
)

func validLecturerInput() LecturerInput {
	return LecturerInput{
		FullName:          "T. Mabena",
		IDNumber:          "8001015009087",
		Email:             "t.mabena@example.ac.za",
		DefaultHourlyRate: 250,
		BankName:          "First National",
		BankAccountNumber: "62000000001",
	}
}

func TestLecturerService_CreateLecturer(t *testing.T) {
	var persisted *entity.Lecturer
	repo := &mockLecturerRepo{
		createFunc: func(ctx context.Context, lecturer *entity.Lecturer) error {
			lecturer.ID = 5
			persisted = lecturer
			return nil
		},
	}
	svc := NewLecturerService(repo, &mockLogger{})

	lecturer, err := svc.CreateLecturer(context.Background(), validLecturerInput())
	if err != nil {
		t.Fatalf("CreateLecturer() error = %v", err)
	}
	if lecturer.ID != 5 {
		t.Errorf("ID = %d, want the persisted id", lecturer.ID)
	}
	if persisted == nil || persisted.Email != "t.mabena@example.ac.za" {
		t.Errorf("persisted lecturer = %+v, want the input fields", persisted)
	}
}

func TestLecturerService_CreateLecturer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *LecturerInput)
	}{
		{"missing name", func(in *LecturerInput) { in.FullName = "" }},
		{"bad email", func(in *LecturerInput) { in.Email = "not-an-email" }},
		{"rate below minimum", func(in *LecturerInput) { in.DefaultHourlyRate = entity.MinHourlyRate - 0.01 }},
		{"rate above maximum", func(in *LecturerInput) { in.DefaultHourlyRate = entity.MaxHourlyRate + 0.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockLecturerRepo{
				createFunc: func(ctx context.Context, lecturer *entity.Lecturer) error {
					t.Error("Create called with invalid input")
					return nil
				},
			}
			svc := NewLecturerService(repo, &mockLogger{})

			input := validLecturerInput()
			tt.mutate(&input)

			_, err := svc.CreateLecturer(context.Background(), input)
			if !entity.IsValidation(err) {
				t.Errorf("CreateLecturer() error = %v, want a validation error", err)
			}
		})
	}
}

func TestLecturerService_CreateLecturer_BoundaryRates(t *testing.T) {
	svc := NewLecturerService(&mockLecturerRepo{}, &mockLogger{})

	for _, rate := range []float64{entity.MinHourlyRate, entity.MaxHourlyRate} {
		input := validLecturerInput()
		input.DefaultHourlyRate = rate
		if _, err := svc.CreateLecturer(context.Background(), input); err != nil {
			t.Errorf("CreateLecturer(rate=%v) error = %v, want boundary rates accepted", rate, err)
		}
	}
}

func TestLecturerService_UpdateLecturer(t *testing.T) {
	var updated *entity.Lecturer
	repo := &mockLecturerRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Lecturer, error) {
			return &entity.Lecturer{ID: id, FullName: "Old Name", Email: "old@example.ac.za", DefaultHourlyRate: 100}, nil
		},
		updateFunc: func(ctx context.Context, lecturer *entity.Lecturer) error {
			updated = lecturer
			return nil
		},
	}
	svc := NewLecturerService(repo, &mockLogger{})

	lecturer, err := svc.UpdateLecturer(context.Background(), 5, validLecturerInput())
	if err != nil {
		t.Fatalf("UpdateLecturer() error = %v", err)
	}
	if lecturer.FullName != "T. Mabena" {
		t.Errorf("FullName = %q, want the new name", lecturer.FullName)
	}
	if updated == nil || updated.ID != 5 {
		t.Errorf("updated lecturer = %+v, want id 5 rewritten", updated)
	}
	if updated.DefaultHourlyRate != 250 {
		t.Errorf("DefaultHourlyRate = %v, want 250", updated.DefaultHourlyRate)
	}
}

func TestLecturerService_UpdateLecturer_NotFound(t *testing.T) {
	svc := NewLecturerService(&mockLecturerRepo{}, &mockLogger{})

	_, err := svc.UpdateLecturer(context.Background(), 99, validLecturerInput())
	if !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("UpdateLecturer() error = %v, want ErrNotFound", err)
	}
}

func TestLecturerService_ListLecturers(t *testing.T) {
	repo := &mockLecturerRepo{
		listFunc: func(ctx context.Context) ([]*entity.Lecturer, error) {
			return []*entity.Lecturer{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := NewLecturerService(repo, &mockLogger{})

	lecturers, err := svc.ListLecturers(context.Background())
	if err != nil {
		t.Fatalf("ListLecturers() error = %v", err)
	}
	if len(lecturers) != 2 {
		t.Errorf("lecturers = %d, want 2", len(lecturers))
	}
}

func TestLecturerService_DeleteLecturer_NotFound(t *testing.T) {
	repo := &mockLecturerRepo{
		deleteFunc: func(ctx context.Context, id int64) error {
			return entity.ErrNotFound
		},
	}
	svc := NewLecturerService(repo, &mockLogger{})

	if err := svc.DeleteLecturer(context.Background(), 99); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("DeleteLecturer() error = %v, want ErrNotFound", err)
	}
}
