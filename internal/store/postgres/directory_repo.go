package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"citasmed/internal/domain"
	"citasmed/internal/store"
)

type DirectoryRepo struct {
	db *bun.DB
}

func NewDirectoryRepo(db *bun.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

func (r *DirectoryRepo) CreateSpecialty(ctx context.Context, s domain.Specialty) (domain.Specialty, error) {
	m := s
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Specialty{}, mapDirectoryConstraint(err)
	}
	return m, nil
}

func (r *DirectoryRepo) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	var rows []domain.Specialty
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DirectoryRepo) CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	m := d
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Doctor{}, mapDirectoryConstraint(err)
	}
	return m, nil
}

func (r *DirectoryRepo) GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error) {
	var d domain.Doctor
	err := r.db.NewSelect().
		Model(&d).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Doctor{}, store.ErrNotFound
		}
		return domain.Doctor{}, err
	}
	return d, nil
}

func (r *DirectoryRepo) UpdateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	m := d
	res, err := r.db.NewUpdate().Model(&m).WherePK().Exec(ctx)
	if err != nil {
		return domain.Doctor{}, mapDirectoryConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Doctor{}, err
	}
	if affected == 0 {
		return domain.Doctor{}, store.ErrNotFound
	}
	return m, nil
}

// DeleteDoctor removes the doctor row (windows cascade) and records a
// doctor_removed event in the same transaction. Identity-side cleanup is
// driven by that event, not by this call.
func (r *DirectoryRepo) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*domain.Doctor)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return store.ErrDoctorHasAppointments
			}
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return store.ErrNotFound
		}

		doctorID := id
		ev := domain.EventRecord{
			EventType: domain.EventDoctorRemoved,
			DoctorID:  &doctorID,
			CreatedAt: time.Now().UTC(),
		}
		_, err = tx.NewInsert().Model(&ev).Exec(ctx)
		return err
	})
}

func (r *DirectoryRepo) ListDoctorsBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]store.DoctorSummary, error) {
	type row struct {
		ID            uuid.UUID `bun:"id"`
		FullName      string    `bun:"full_name"`
		SpecialtyID   uuid.UUID `bun:"specialty_id"`
		SpecialtyName string    `bun:"specialty_name"`
	}

	var rows []row
	err := r.db.NewSelect().
		TableExpr("doctors AS d").
		ColumnExpr("d.id, d.full_name, d.specialty_id").
		ColumnExpr("s.name AS specialty_name").
		Join("JOIN specialties AS s ON s.id = d.specialty_id").
		Where("d.specialty_id = ?", specialtyID).
		OrderExpr("d.full_name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]store.DoctorSummary, 0, len(rows))
	for _, d := range rows {
		out = append(out, store.DoctorSummary(d))
	}
	return out, nil
}

func (r *DirectoryRepo) CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	m := p
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Patient{}, mapDirectoryConstraint(err)
	}
	return m, nil
}

func (r *DirectoryRepo) GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	var p domain.Patient
	err := r.db.NewSelect().
		Model(&p).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Patient{}, store.ErrNotFound
		}
		return domain.Patient{}, err
	}
	return p, nil
}

func (r *DirectoryRepo) UpdatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	m := p
	res, err := r.db.NewUpdate().Model(&m).WherePK().Exec(ctx)
	if err != nil {
		return domain.Patient{}, mapDirectoryConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Patient{}, err
	}
	if affected == 0 {
		return domain.Patient{}, store.ErrNotFound
	}
	return m, nil
}

// CreateAvailabilityWindow inserts the window after verifying, under the
// doctor's schedule lock, that it does not overlap an existing window on the
// same weekday.
func (r *DirectoryRepo) CreateAvailabilityWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	var out domain.AvailabilityWindow
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockDoctorSchedule(ctx, tx, w.DoctorID); err != nil {
			return err
		}

		var existing []domain.AvailabilityWindow
		err := tx.NewSelect().
			Model(&existing).
			Where("doctor_id = ?", w.DoctorID).
			Where("weekday = ?", w.Weekday).
			Scan(ctx)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if domain.WindowsOverlap(e, w) {
				return store.ErrWindowOverlap
			}
		}

		m := w
		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return store.ErrNotFound
			}
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	return out, nil
}

func (r *DirectoryRepo) DeleteAvailabilityWindow(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.AvailabilityWindow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *DirectoryRepo) ListAvailabilityWindows(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("doctor_id = ?", doctorID).
		OrderExpr("weekday ASC, start_minute ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func mapDirectoryConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return store.ErrAlreadyExists
	case "23503":
		return store.ErrNotFound
	}
	return err
}
