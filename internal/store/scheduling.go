package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"citasmed/internal/domain"
)

// SchedulingRepository is the storage collaborator of the scheduling service.
type SchedulingRepository interface {
	// InDoctorSchedule runs fn inside a transaction that holds an exclusive
	// lock on the doctor's schedule, so a conflict check followed by an
	// insert or update is one atomic unit. The transaction is rolled back
	// when fn returns an error or ctx is cancelled.
	InDoctorSchedule(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context, tx ScheduleTx) error) error

	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListAppointments(ctx context.Context, q AppointmentQuery) ([]AppointmentView, error)
}

// ScheduleTx is the view of the store inside a locked doctor schedule.
type ScheduleTx interface {
	ListAvailabilityWindows(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityWindow, error)

	// ActiveAppointmentExistsAt reports whether a non-cancelled appointment
	// for the doctor exists at exactly at, excluding excludeID when non-nil.
	ActiveAppointmentExistsAt(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error)

	// ActivePatientBookingExistsBetween reports whether the (doctor, patient)
	// pair has a non-cancelled appointment with scheduled_at in
	// [dayStart, dayEnd), excluding excludeID when non-nil.
	ActivePatientBookingExistsBetween(ctx context.Context, doctorID, patientID uuid.UUID, dayStart, dayEnd time.Time, excludeID uuid.UUID) (bool, error)

	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	InsertEvent(ctx context.Context, ev domain.EventRecord) error
}

// AppointmentQuery is the read-side projection for ListAppointments. The
// ownership fields come from the actor's visibility scope; the rest are
// optional filters.
type AppointmentQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID

	From   *time.Time
	To     *time.Time
	Status *domain.AppointmentStatus

	DoctorName  string // substring, admin filter
	PatientName string // substring, admin filter
	SpecialtyID *uuid.UUID
}

// AppointmentView is an appointment joined with the display names callers
// show in lists.
type AppointmentView struct {
	domain.Appointment

	DoctorName    string
	SpecialtyName string
	PatientName   string
}
