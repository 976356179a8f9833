package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Terminal statuses admit no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

const MaxReasonLength = 200

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID          uuid.UUID         `bun:"id,pk,type:uuid"`
	PatientID   uuid.UUID         `bun:"patient_id,notnull,type:uuid"`
	DoctorID    uuid.UUID         `bun:"doctor_id,notnull,type:uuid"`
	ScheduledAt time.Time         `bun:"scheduled_at,notnull"`
	Reason      string            `bun:"reason,notnull"`
	Status      AppointmentStatus `bun:"status,notnull"`
	CreatedAt   time.Time         `bun:"created_at,notnull"`
	UpdatedAt   time.Time         `bun:"updated_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = StatusPending
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
