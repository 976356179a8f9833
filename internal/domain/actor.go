package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Actor is the pre-resolved identity the caller supplies with every request.
// For doctor and patient roles the ID is the matching directory record id;
// the engine never authenticates, it only authorizes against this pair.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Owns reports whether the actor is the appointment's patient or its
// assigned doctor.
func (a Actor) Owns(appt Appointment) bool {
	switch a.Role {
	case RolePatient:
		return a.ID == appt.PatientID
	case RoleDoctor:
		return a.ID == appt.DoctorID
	}
	return false
}
