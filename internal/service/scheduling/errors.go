package scheduling

import (
	"errors"
	"fmt"

	"citasmed/internal/domain"
	"citasmed/internal/store"
)

// ConflictKind identifies the first booking rule a requested slot violated.
type ConflictKind string

const (
	ConflictPastSlot                ConflictKind = "past_slot"
	ConflictOutsideAvailability     ConflictKind = "outside_availability"
	ConflictDoctorDoubleBooked      ConflictKind = "doctor_double_booked"
	ConflictDuplicatePatientBooking ConflictKind = "duplicate_patient_booking"
)

type ConflictError struct {
	Kind ConflictKind
}

func (e *ConflictError) Error() string {
	switch e.Kind {
	case ConflictPastSlot:
		return "appointments cannot be scheduled in the past"
	case ConflictOutsideAvailability:
		return "the doctor is not available at that time"
	case ConflictDoctorDoubleBooked:
		return "the doctor already has an appointment at that time"
	case ConflictDuplicatePatientBooking:
		return "the patient already has an appointment with this doctor on that date"
	}
	return string(e.Kind)
}

func conflict(kind ConflictKind) error {
	return &ConflictError{Kind: kind}
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

// ErrStoreUnavailable wraps unexpected storage failures. It is the only
// retryable error the service returns; every other kind will fail again on
// the same input.
var ErrStoreUnavailable = errors.New("store unavailable")

// translateRepoErr lets the service's own error kinds and the shared
// sentinels pass through, converts constraint backstops raised by concurrent
// writers to their conflict kinds, and wraps anything else as retryable.
func translateRepoErr(err error) error {
	if err == nil {
		return nil
	}

	var conflictErr *ConflictError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &conflictErr), errors.As(err, &validationErr):
		return err
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrAlreadyTerminal),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, store.ErrNotFound):
		return err
	case errors.Is(err, store.ErrDoctorDoubleBooked):
		return conflict(ConflictDoctorDoubleBooked)
	case errors.Is(err, store.ErrDuplicatePatientBooking):
		return conflict(ConflictDuplicatePatientBooking)
	}

	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
