package store

import (
	"context"

	"github.com/google/uuid"

	"citasmed/internal/domain"
)

// DirectoryRepository owns the reference data the scheduling engine reads:
// specialties, doctors, patients and their availability windows.
type DirectoryRepository interface {
	CreateSpecialty(ctx context.Context, s domain.Specialty) (domain.Specialty, error)
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)

	CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error)
	UpdateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error)
	// DeleteDoctor removes the doctor and records a doctor_removed event in
	// the same transaction; linked account cleanup is the identity
	// collaborator's reaction to that event, never a direct call.
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
	ListDoctorsBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]DoctorSummary, error)

	CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	UpdatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error)

	CreateAvailabilityWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	DeleteAvailabilityWindow(ctx context.Context, id uuid.UUID) error
	ListAvailabilityWindows(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityWindow, error)
}

// DoctorSummary populates doctor selection lists.
type DoctorSummary struct {
	ID            uuid.UUID
	FullName      string
	SpecialtyID   uuid.UUID
	SpecialtyName string
}
