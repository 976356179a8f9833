package scheduling

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"citasmed/internal/domain"
	"citasmed/internal/store"
)

// Directory is the slice of the directory store the scheduling engine reads.
type Directory interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error)
	GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	ListDoctorsBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]store.DoctorSummary, error)
}

// Service is the single entry point for everything the web layer does with
// appointments. It composes the availability lookup, the conflict detector
// and the lifecycle transitions over the storage collaborator.
type Service struct {
	repo store.SchedulingRepository
	dir  Directory

	clock               func() time.Time
	loc                 *time.Location
	openWhenUnscheduled bool
}

type Config struct {
	// Clock supplies "now" for the past-slot rule. Defaults to time.Now.
	Clock func() time.Time
	// Location is the clinic timezone used to resolve weekdays and calendar
	// dates. Defaults to UTC.
	Location *time.Location
	// OpenWhenUnscheduled accepts any slot for doctors without configured
	// availability windows.
	OpenWhenUnscheduled bool
}

func NewService(repo store.SchedulingRepository, dir Directory, cfg Config) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:                repo,
		dir:                 dir,
		clock:               clock,
		loc:                 loc,
		openWhenUnscheduled: cfg.OpenWhenUnscheduled,
	}
}

type RequestInput struct {
	DoctorID    uuid.UUID
	PatientID   uuid.UUID
	ScheduledAt time.Time
	Reason      string
	Actor       domain.Actor
}

// RequestAppointment books a pending appointment for the patient if the slot
// passes every conflict rule. Patients may only book for themselves; admins
// may book for anyone; doctors do not create bookings.
func (s *Service) RequestAppointment(ctx context.Context, in RequestInput) (domain.Appointment, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.Appointment{}, validationError("reason is required")
	}
	if len(reason) > domain.MaxReasonLength {
		return domain.Appointment{}, validationError("reason too long")
	}
	if in.DoctorID == uuid.Nil {
		return domain.Appointment{}, validationError("doctor_id is required")
	}
	if in.PatientID == uuid.Nil {
		return domain.Appointment{}, validationError("patient_id is required")
	}

	switch in.Actor.Role {
	case domain.RoleAdmin:
	case domain.RolePatient:
		if in.Actor.ID != in.PatientID {
			return domain.Appointment{}, domain.ErrForbidden
		}
	default:
		return domain.Appointment{}, domain.ErrForbidden
	}

	if _, err := s.dir.GetDoctor(ctx, in.DoctorID); err != nil {
		return domain.Appointment{}, translateRepoErr(err)
	}
	if _, err := s.dir.GetPatient(ctx, in.PatientID); err != nil {
		return domain.Appointment{}, translateRepoErr(err)
	}

	at := in.ScheduledAt.UTC()

	var created domain.Appointment
	err := s.repo.InDoctorSchedule(ctx, in.DoctorID, func(ctx context.Context, tx store.ScheduleTx) error {
		if err := s.findConflict(ctx, tx, in.DoctorID, in.PatientID, at, uuid.Nil); err != nil {
			return err
		}

		appt, err := tx.InsertAppointment(ctx, domain.Appointment{
			PatientID:   in.PatientID,
			DoctorID:    in.DoctorID,
			ScheduledAt: at,
			Reason:      reason,
			Status:      domain.StatusPending,
		})
		if err != nil {
			return err
		}
		created = appt

		return tx.InsertEvent(ctx, appointmentEvent(domain.EventAppointmentRequested, appt, map[string]any{
			"doctor_id":    appt.DoctorID.String(),
			"patient_id":   appt.PatientID.String(),
			"scheduled_at": appt.ScheduledAt,
		}))
	})
	if err != nil {
		return domain.Appointment{}, translateRepoErr(err)
	}
	return created, nil
}

// Reschedule moves an appointment to a new instant, re-running every
// conflict rule with the appointment itself excluded so it does not collide
// with its own slot. Status is left untouched.
func (s *Service) Reschedule(ctx context.Context, appointmentID uuid.UUID, newAt time.Time, actor domain.Actor) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	appt, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return domain.Appointment{}, translateRepoErr(err)
	}
	if !actor.IsAdmin() && !actor.Owns(appt) {
		return domain.Appointment{}, domain.ErrForbidden
	}

	at := newAt.UTC()

	var updated domain.Appointment
	err = s.repo.InDoctorSchedule(ctx, appt.DoctorID, func(ctx context.Context, tx store.ScheduleTx) error {
		cur, err := tx.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if cur.Status.Terminal() {
			return domain.ErrAlreadyTerminal
		}
		if err := s.findConflict(ctx, tx, cur.DoctorID, cur.PatientID, at, cur.ID); err != nil {
			return err
		}

		previous := cur.ScheduledAt
		cur.ScheduledAt = at
		cur, err = tx.UpdateAppointment(ctx, cur)
		if err != nil {
			return err
		}
		updated = cur

		return tx.InsertEvent(ctx, appointmentEvent(domain.EventAppointmentRescheduled, cur, map[string]any{
			"previous_scheduled_at": previous,
			"scheduled_at":          cur.ScheduledAt,
		}))
	})
	if err != nil {
		return domain.Appointment{}, translateRepoErr(err)
	}
	return updated, nil
}

func (s *Service) Confirm(ctx context.Context, appointmentID uuid.UUID, actor domain.Actor) (domain.Appointment, error) {
	return s.transition(ctx, appointmentID, domain.ActionConfirm, actor, domain.EventAppointmentConfirmed)
}

func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID, actor domain.Actor) (domain.Appointment, error) {
	return s.transition(ctx, appointmentID, domain.ActionCancel, actor, domain.EventAppointmentCancelled)
}

func (s *Service) Complete(ctx context.Context, appointmentID uuid.UUID, actor domain.Actor) (domain.Appointment, error) {
	return s.transition(ctx, appointmentID, domain.ActionComplete, actor, domain.EventAppointmentCompleted)
}

func (s *Service) transition(ctx context.Context, appointmentID uuid.UUID, action domain.TransitionAction, actor domain.Actor, eventType string) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	appt, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return domain.Appointment{}, translateRepoErr(err)
	}

	var updated domain.Appointment
	err = s.repo.InDoctorSchedule(ctx, appt.DoctorID, func(ctx context.Context, tx store.ScheduleTx) error {
		cur, err := tx.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := domain.Transition(&cur, action, actor); err != nil {
			return err
		}
		cur, err = tx.UpdateAppointment(ctx, cur)
		if err != nil {
			return err
		}
		updated = cur

		return tx.InsertEvent(ctx, appointmentEvent(eventType, cur, map[string]any{
			"status": string(cur.Status),
			"actor":  string(actor.Role),
		}))
	})
	if err != nil {
		return domain.Appointment{}, translateRepoErr(err)
	}
	return updated, nil
}

type Filters struct {
	From   *time.Time
	To     *time.Time
	Status *domain.AppointmentStatus

	// Admin-only filters; ignored for other roles.
	DoctorName  string
	PatientName string
	SpecialtyID *uuid.UUID
}

// ListVisible returns the appointments the actor is allowed to see: patients
// and doctors their own, admins everything. The visibility scope is resolved
// once per call from the role, never per row.
func (s *Service) ListVisible(ctx context.Context, actor domain.Actor, f Filters) ([]store.AppointmentView, error) {
	q, err := visibilityScope(actor)
	if err != nil {
		return nil, err
	}

	q.From = f.From
	q.To = f.To
	q.Status = f.Status
	if actor.IsAdmin() {
		q.DoctorName = f.DoctorName
		q.PatientName = f.PatientName
		q.SpecialtyID = f.SpecialtyID
	}

	views, err := s.repo.ListAppointments(ctx, q)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	return views, nil
}

// visibilityScope maps a role to its ownership predicate.
func visibilityScope(actor domain.Actor) (store.AppointmentQuery, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return store.AppointmentQuery{}, nil
	case domain.RoleDoctor:
		id := actor.ID
		return store.AppointmentQuery{DoctorID: &id}, nil
	case domain.RolePatient:
		id := actor.ID
		return store.AppointmentQuery{PatientID: &id}, nil
	}
	return store.AppointmentQuery{}, domain.ErrForbidden
}

// AvailableDoctorsFor lists the doctors of a specialty for selection lists.
func (s *Service) AvailableDoctorsFor(ctx context.Context, specialtyID uuid.UUID) ([]store.DoctorSummary, error) {
	if specialtyID == uuid.Nil {
		return nil, validationError("specialty_id is required")
	}
	doctors, err := s.dir.ListDoctorsBySpecialty(ctx, specialtyID)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	return doctors, nil
}

func appointmentEvent(eventType string, appt domain.Appointment, payload map[string]any) domain.EventRecord {
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	id := appt.ID
	return domain.EventRecord{
		EventType:     eventType,
		AppointmentID: &id,
		Payload:       data,
	}
}
