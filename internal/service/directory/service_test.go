package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"citasmed/internal/domain"
	"citasmed/internal/store"
)

type fakeRepo struct {
	store.DirectoryRepository

	createSpecialtyFn func(ctx context.Context, s domain.Specialty) (domain.Specialty, error)
	createDoctorFn    func(ctx context.Context, d domain.Doctor) (domain.Doctor, error)
	deleteDoctorFn    func(ctx context.Context, id uuid.UUID) error
	createPatientFn   func(ctx context.Context, p domain.Patient) (domain.Patient, error)
	createWindowFn    func(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	getPatientFn      func(ctx context.Context, id uuid.UUID) (domain.Patient, error)
}

func (f *fakeRepo) CreateSpecialty(ctx context.Context, s domain.Specialty) (domain.Specialty, error) {
	if f.createSpecialtyFn == nil {
		return s, nil
	}
	return f.createSpecialtyFn(ctx, s)
}

func (f *fakeRepo) CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	if f.createDoctorFn == nil {
		return d, nil
	}
	return f.createDoctorFn(ctx, d)
}

func (f *fakeRepo) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if f.deleteDoctorFn == nil {
		return nil
	}
	return f.deleteDoctorFn(ctx, id)
}

func (f *fakeRepo) CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	if f.createPatientFn == nil {
		return p, nil
	}
	return f.createPatientFn(ctx, p)
}

func (f *fakeRepo) GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	if f.getPatientFn == nil {
		return domain.Patient{ID: id}, nil
	}
	return f.getPatientFn(ctx, id)
}

func (f *fakeRepo) CreateAvailabilityWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	if f.createWindowFn == nil {
		return w, nil
	}
	return f.createWindowFn(ctx, w)
}

var (
	admin   = domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	patient = domain.Actor{ID: uuid.New(), Role: domain.RolePatient}
)

func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func TestWritesRequireAdmin(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()
	doctorID := uuid.New()

	cases := []struct {
		name string
		call func() error
	}{
		{"create specialty", func() error {
			_, err := svc.CreateSpecialty(ctx, patient, domain.Specialty{Name: "Cardiologia"})
			return err
		}},
		{"create doctor", func() error {
			_, err := svc.CreateDoctor(ctx, patient, domain.Doctor{FullName: "Ana Garcia"})
			return err
		}},
		{"delete doctor", func() error {
			return svc.DeleteDoctor(ctx, patient, doctorID)
		}},
		{"create patient", func() error {
			_, err := svc.CreatePatient(ctx, patient, domain.Patient{FirstName: "Luis"})
			return err
		}},
		{"add window", func() error {
			_, err := svc.AddAvailabilityWindow(ctx, patient, domain.AvailabilityWindow{DoctorID: doctorID, Weekday: 1, StartMinute: 540, EndMinute: 720})
			return err
		}},
		{"remove window", func() error {
			return svc.RemoveAvailabilityWindow(ctx, patient, uuid.New())
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, domain.ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestCreateDoctor(t *testing.T) {
	specialtyID := uuid.New()

	t.Run("creates a valid doctor", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		d, err := svc.CreateDoctor(context.Background(), admin, domain.Doctor{
			FullName:      "  Ana Garcia  ",
			LicenseNumber: "CMP-12345",
			Email:         "ana@clinica.pe",
			SpecialtyID:   specialtyID,
		})
		if err != nil {
			t.Fatalf("CreateDoctor: %v", err)
		}
		if d.FullName != "Ana Garcia" {
			t.Errorf("full name not trimmed: %q", d.FullName)
		}
	})

	t.Run("rejects incomplete doctors", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		base := domain.Doctor{
			FullName:      "Ana Garcia",
			LicenseNumber: "CMP-12345",
			Email:         "ana@clinica.pe",
			SpecialtyID:   specialtyID,
		}

		cases := []struct {
			name   string
			mutate func(*domain.Doctor)
		}{
			{"no name", func(d *domain.Doctor) { d.FullName = " " }},
			{"no license", func(d *domain.Doctor) { d.LicenseNumber = "" }},
			{"no email", func(d *domain.Doctor) { d.Email = "" }},
			{"no specialty", func(d *domain.Doctor) { d.SpecialtyID = uuid.Nil }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				d := base
				tc.mutate(&d)
				if _, err := svc.CreateDoctor(context.Background(), admin, d); !isValidation(err) {
					t.Errorf("err = %v, want ValidationError", err)
				}
			})
		}
	})

	t.Run("duplicate email surfaces already exists", func(t *testing.T) {
		repo := &fakeRepo{
			createDoctorFn: func(context.Context, domain.Doctor) (domain.Doctor, error) {
				return domain.Doctor{}, store.ErrAlreadyExists
			},
		}
		svc := NewService(repo)

		_, err := svc.CreateDoctor(context.Background(), admin, domain.Doctor{
			FullName:      "Ana Garcia",
			LicenseNumber: "CMP-12345",
			Email:         "ana@clinica.pe",
			SpecialtyID:   specialtyID,
		})
		if !errors.Is(err, store.ErrAlreadyExists) {
			t.Errorf("err = %v, want ErrAlreadyExists", err)
		}
	})
}

func TestDeleteDoctor(t *testing.T) {
	t.Run("refuses while appointments remain", func(t *testing.T) {
		repo := &fakeRepo{
			deleteDoctorFn: func(context.Context, uuid.UUID) error {
				return store.ErrDoctorHasAppointments
			},
		}
		svc := NewService(repo)

		err := svc.DeleteDoctor(context.Background(), admin, uuid.New())
		if !errors.Is(err, store.ErrDoctorHasAppointments) {
			t.Errorf("err = %v, want ErrDoctorHasAppointments", err)
		}
	})
}

func TestAddAvailabilityWindow(t *testing.T) {
	doctorID := uuid.New()
	valid := domain.AvailabilityWindow{DoctorID: doctorID, Weekday: 1, StartMinute: 540, EndMinute: 720}

	t.Run("accepts a valid window", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		if _, err := svc.AddAvailabilityWindow(context.Background(), admin, valid); err != nil {
			t.Fatalf("AddAvailabilityWindow: %v", err)
		}
	})

	t.Run("rejects malformed windows", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		cases := []struct {
			name   string
			mutate func(*domain.AvailabilityWindow)
		}{
			{"weekday zero", func(w *domain.AvailabilityWindow) { w.Weekday = 0 }},
			{"weekday eight", func(w *domain.AvailabilityWindow) { w.Weekday = 8 }},
			{"negative start", func(w *domain.AvailabilityWindow) { w.StartMinute = -10 }},
			{"end past midnight", func(w *domain.AvailabilityWindow) { w.EndMinute = 24*60 + 1 }},
			{"start after end", func(w *domain.AvailabilityWindow) { w.StartMinute, w.EndMinute = 720, 540 }},
			{"empty window", func(w *domain.AvailabilityWindow) { w.EndMinute = w.StartMinute }},
			{"no doctor", func(w *domain.AvailabilityWindow) { w.DoctorID = uuid.Nil }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				w := valid
				tc.mutate(&w)
				if _, err := svc.AddAvailabilityWindow(context.Background(), admin, w); !isValidation(err) {
					t.Errorf("err = %v, want ValidationError", err)
				}
			})
		}
	})

	t.Run("overlap is the store's verdict", func(t *testing.T) {
		repo := &fakeRepo{
			createWindowFn: func(context.Context, domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
				return domain.AvailabilityWindow{}, store.ErrWindowOverlap
			},
		}
		svc := NewService(repo)

		if _, err := svc.AddAvailabilityWindow(context.Background(), admin, valid); !errors.Is(err, store.ErrWindowOverlap) {
			t.Errorf("err = %v, want ErrWindowOverlap", err)
		}
	})
}

func TestGetPatient(t *testing.T) {
	t.Run("patients read their own record", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		if _, err := svc.GetPatient(context.Background(), patient, patient.ID); err != nil {
			t.Fatalf("GetPatient: %v", err)
		}
	})

	t.Run("patients cannot read other records", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		_, err := svc.GetPatient(context.Background(), patient, uuid.New())
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("admins read any record", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		if _, err := svc.GetPatient(context.Background(), admin, uuid.New()); err != nil {
			t.Fatalf("GetPatient: %v", err)
		}
	})
}
