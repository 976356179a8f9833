package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	EventAppointmentRequested   = "appointment_requested"
	EventAppointmentRescheduled = "appointment_rescheduled"
	EventAppointmentConfirmed   = "appointment_confirmed"
	EventAppointmentCancelled   = "appointment_cancelled"
	EventAppointmentCompleted   = "appointment_completed"
	EventDoctorRemoved          = "doctor_removed"
)

// EventRecord is an append-only trail of scheduling mutations, written in the
// same transaction as the mutation itself. External collaborators (e.g. the
// identity service reacting to doctor_removed) consume it.
type EventRecord struct {
	bun.BaseModel `bun:"table:event_log"`

	ID            int64      `bun:"id,pk,autoincrement"`
	EventType     string     `bun:"event_type,notnull"`
	AppointmentID *uuid.UUID `bun:"appointment_id,type:uuid"`
	DoctorID      *uuid.UUID `bun:"doctor_id,type:uuid"`
	Payload       []byte     `bun:"payload"`
	CreatedAt     time.Time  `bun:"created_at,notnull"`
}
