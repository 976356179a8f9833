// Package directory manages the clinic's reference data: specialties,
// doctors, patients and the weekly availability windows the scheduling
// engine consults. Every write is admin-only.
package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"citasmed/internal/domain"
	"citasmed/internal/store"
)

type Service struct {
	repo store.DirectoryRepository
}

func NewService(repo store.DirectoryRepository) *Service {
	return &Service{repo: repo}
}

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *Service) CreateSpecialty(ctx context.Context, actor domain.Actor, sp domain.Specialty) (domain.Specialty, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Specialty{}, err
	}
	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		return domain.Specialty{}, validationError("name is required")
	}
	return s.repo.CreateSpecialty(ctx, sp)
}

// ListSpecialties is open to every role; patients pick a specialty before
// they can pick a doctor.
func (s *Service) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	return s.repo.ListSpecialties(ctx)
}

func (s *Service) CreateDoctor(ctx context.Context, actor domain.Actor, d domain.Doctor) (domain.Doctor, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Doctor{}, err
	}
	if err := validateDoctor(&d); err != nil {
		return domain.Doctor{}, err
	}
	return s.repo.CreateDoctor(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error) {
	if id == uuid.Nil {
		return domain.Doctor{}, validationError("doctor_id is required")
	}
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, actor domain.Actor, d domain.Doctor) (domain.Doctor, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Doctor{}, err
	}
	if d.ID == uuid.Nil {
		return domain.Doctor{}, validationError("doctor_id is required")
	}
	if err := validateDoctor(&d); err != nil {
		return domain.Doctor{}, err
	}
	return s.repo.UpdateDoctor(ctx, d)
}

// DeleteDoctor refuses while the doctor still has appointments on file, so
// the historical record stays intact. Cancel or complete them first.
func (s *Service) DeleteDoctor(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == uuid.Nil {
		return validationError("doctor_id is required")
	}
	return s.repo.DeleteDoctor(ctx, id)
}

func (s *Service) ListDoctorsBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]store.DoctorSummary, error) {
	if specialtyID == uuid.Nil {
		return nil, validationError("specialty_id is required")
	}
	return s.repo.ListDoctorsBySpecialty(ctx, specialtyID)
}

func (s *Service) CreatePatient(ctx context.Context, actor domain.Actor, p domain.Patient) (domain.Patient, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Patient{}, err
	}
	if err := validatePatient(&p); err != nil {
		return domain.Patient{}, err
	}
	return s.repo.CreatePatient(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Patient, error) {
	if id == uuid.Nil {
		return domain.Patient{}, validationError("patient_id is required")
	}
	// Patients may read their own record, everything else is admin territory.
	if !actor.IsAdmin() && !(actor.Role == domain.RolePatient && actor.ID == id) {
		return domain.Patient{}, domain.ErrForbidden
	}
	return s.repo.GetPatient(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, actor domain.Actor, p domain.Patient) (domain.Patient, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Patient{}, err
	}
	if p.ID == uuid.Nil {
		return domain.Patient{}, validationError("patient_id is required")
	}
	if err := validatePatient(&p); err != nil {
		return domain.Patient{}, err
	}
	return s.repo.UpdatePatient(ctx, p)
}

// AddAvailabilityWindow registers a weekly working window for a doctor.
// Overlap with existing windows on the same weekday is rejected by the store
// under the doctor's schedule lock.
func (s *Service) AddAvailabilityWindow(ctx context.Context, actor domain.Actor, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.AvailabilityWindow{}, err
	}
	if w.DoctorID == uuid.Nil {
		return domain.AvailabilityWindow{}, validationError("doctor_id is required")
	}
	if w.Weekday < 1 || w.Weekday > 7 {
		return domain.AvailabilityWindow{}, validationError("weekday must be between 1 (Monday) and 7 (Sunday)")
	}
	if w.StartMinute < 0 || w.EndMinute > 24*60 {
		return domain.AvailabilityWindow{}, validationError("window must fit within a day")
	}
	if w.StartMinute >= w.EndMinute {
		return domain.AvailabilityWindow{}, validationError("window start must be before its end")
	}
	return s.repo.CreateAvailabilityWindow(ctx, w)
}

func (s *Service) RemoveAvailabilityWindow(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == uuid.Nil {
		return validationError("window_id is required")
	}
	return s.repo.DeleteAvailabilityWindow(ctx, id)
}

func (s *Service) ListAvailabilityWindows(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	if doctorID == uuid.Nil {
		return nil, validationError("doctor_id is required")
	}
	return s.repo.ListAvailabilityWindows(ctx, doctorID)
}

func validateDoctor(d *domain.Doctor) error {
	d.FullName = strings.TrimSpace(d.FullName)
	d.LicenseNumber = strings.TrimSpace(d.LicenseNumber)
	d.Email = strings.TrimSpace(d.Email)
	switch {
	case d.FullName == "":
		return validationError("full_name is required")
	case d.LicenseNumber == "":
		return validationError("license_number is required")
	case d.Email == "":
		return validationError("email is required")
	case d.SpecialtyID == uuid.Nil:
		return validationError("specialty_id is required")
	}
	return nil
}

func validatePatient(p *domain.Patient) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.DocumentNumber = strings.TrimSpace(p.DocumentNumber)
	p.Email = strings.TrimSpace(p.Email)
	switch {
	case p.FirstName == "":
		return validationError("first_name is required")
	case p.LastName == "":
		return validationError("last_name is required")
	case p.DocumentNumber == "":
		return validationError("document_number is required")
	case p.Email == "":
		return validationError("email is required")
	}
	return nil
}
