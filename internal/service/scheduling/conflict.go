package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"citasmed/internal/domain"
	"citasmed/internal/store"
)

// findConflict applies the booking rules against the locked schedule, in
// order: past slot, outside availability, doctor double-booked, duplicate
// patient booking. The first failing rule wins and the rest are skipped, so
// callers surface exactly one actionable error per attempt.
//
// excludeID carves the appointment being rescheduled out of the collision
// checks; pass uuid.Nil for new bookings.
func (s *Service) findConflict(ctx context.Context, tx store.ScheduleTx, doctorID, patientID uuid.UUID, at time.Time, excludeID uuid.UUID) error {
	if !at.After(s.clock()) {
		return conflict(ConflictPastSlot)
	}

	windows, err := tx.ListAvailabilityWindows(ctx, doctorID)
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		// A doctor with no configured windows is bookable at any time only
		// under the open-by-default policy.
		if !s.openWhenUnscheduled {
			return conflict(ConflictOutsideAvailability)
		}
	} else if !domain.WithinAvailability(windows, at, s.loc) {
		return conflict(ConflictOutsideAvailability)
	}

	taken, err := tx.ActiveAppointmentExistsAt(ctx, doctorID, at, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return conflict(ConflictDoctorDoubleBooked)
	}

	dayStart, dayEnd := s.calendarDay(at)
	duplicate, err := tx.ActivePatientBookingExistsBetween(ctx, doctorID, patientID, dayStart, dayEnd, excludeID)
	if err != nil {
		return err
	}
	if duplicate {
		return conflict(ConflictDuplicatePatientBooking)
	}

	return nil
}

// calendarDay bounds the clinic-local calendar date containing at.
func (s *Service) calendarDay(at time.Time) (time.Time, time.Time) {
	local := at.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}
