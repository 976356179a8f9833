package domain

import "errors"

var (
	ErrForbidden         = errors.New("actor not allowed to perform this transition")
	ErrAlreadyTerminal   = errors.New("appointment is already in a terminal status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type TransitionAction string

const (
	ActionConfirm  TransitionAction = "confirm"
	ActionCancel   TransitionAction = "cancel"
	ActionComplete TransitionAction = "complete"
)

// Transition applies action to the appointment on behalf of actor, mutating
// its status on success.
//
// Allowed transitions: pending -> confirmed -> completed, and
// pending|confirmed -> cancelled. Completing straight from pending is
// permitted so walk-in visits can be closed without a confirm step.
// Cancelled and completed are terminal.
//
// Cancel is open to the owning patient, the assigned doctor and admins;
// confirm and complete only to the assigned doctor and admins.
func Transition(appt *Appointment, action TransitionAction, actor Actor) error {
	if appt.Status.Terminal() {
		return ErrAlreadyTerminal
	}

	switch action {
	case ActionCancel:
		if !actor.IsAdmin() && !actor.Owns(*appt) {
			return ErrForbidden
		}
		appt.Status = StatusCancelled
		return nil

	case ActionConfirm:
		if !assignedDoctorOrAdmin(actor, *appt) {
			return ErrForbidden
		}
		if appt.Status != StatusPending {
			return ErrInvalidTransition
		}
		appt.Status = StatusConfirmed
		return nil

	case ActionComplete:
		if !assignedDoctorOrAdmin(actor, *appt) {
			return ErrForbidden
		}
		appt.Status = StatusCompleted
		return nil
	}

	return ErrInvalidTransition
}

func assignedDoctorOrAdmin(actor Actor, appt Appointment) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == RoleDoctor && actor.ID == appt.DoctorID
}
