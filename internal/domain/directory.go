package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Specialty struct {
	bun.BaseModel `bun:"table:specialties"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type Doctor struct {
	bun.BaseModel `bun:"table:doctors"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	FullName      string    `bun:"full_name,notnull"`
	LicenseNumber string    `bun:"license_number,notnull"`
	Email         string    `bun:"email,notnull"`
	SpecialtyID   uuid.UUID `bun:"specialty_id,notnull,type:uuid"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

type Patient struct {
	bun.BaseModel `bun:"table:patients"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid"`
	FirstName      string     `bun:"first_name,notnull"`
	LastName       string     `bun:"last_name,notnull"`
	DocumentNumber string     `bun:"document_number,notnull"`
	Phone          string     `bun:"phone"`
	Email          string     `bun:"email,notnull"`
	BirthDate      *time.Time `bun:"birth_date"`
	CreatedAt      time.Time  `bun:"created_at,notnull"`
	UpdatedAt      time.Time  `bun:"updated_at,notnull"`
}

// AvailabilityWindow is one weekly recurring working window of a doctor.
// Weekday follows ISO-8601: 1=Monday .. 7=Sunday. StartMinute/EndMinute are
// minutes from midnight in the clinic timezone, StartMinute < EndMinute.
type AvailabilityWindow struct {
	bun.BaseModel `bun:"table:availability_windows"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	DoctorID    uuid.UUID `bun:"doctor_id,notnull,type:uuid"`
	Weekday     int       `bun:"weekday,notnull"`
	StartMinute int       `bun:"start_minute,notnull"`
	EndMinute   int       `bun:"end_minute,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (s *Specialty) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (d *Doctor) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (p *Patient) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (w *AvailabilityWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &w.ID, &w.CreatedAt, &w.UpdatedAt)
}

// stampModel fills the id and timestamps the same way on every model.
func stampModel(query bun.Query, id *uuid.UUID, createdAt, updatedAt *time.Time) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if *id == uuid.Nil {
			v, err := uuid.NewV7()
			if err != nil {
				return err
			}
			*id = v
		}
		if createdAt.IsZero() {
			*createdAt = now
		}
		if updatedAt.IsZero() {
			*updatedAt = now
		}
	case *bun.UpdateQuery:
		*updatedAt = now
	}
	return nil
}
