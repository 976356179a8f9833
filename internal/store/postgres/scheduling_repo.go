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

type SchedulingRepo struct {
	db *bun.DB
}

func NewSchedulingRepo(db *bun.DB) *SchedulingRepo {
	return &SchedulingRepo{db: db}
}

type scheduleTx struct {
	tx bun.Tx
}

// InDoctorSchedule serializes all writers of one doctor's schedule with an
// advisory transaction lock, making check-then-insert atomic. The partial
// unique indexes remain as the backstop for anything not covered by the lock.
func (r *SchedulingRepo) InDoctorSchedule(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockDoctorSchedule(ctx, tx, doctorID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockDoctorSchedule(ctx context.Context, tx bun.Tx, doctorID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", doctorID.String()).Exec(ctx)
	return err
}

func (r *SchedulingRepo) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

type appointmentViewRow struct {
	ID            uuid.UUID                `bun:"id"`
	PatientID     uuid.UUID                `bun:"patient_id"`
	DoctorID      uuid.UUID                `bun:"doctor_id"`
	ScheduledAt   time.Time                `bun:"scheduled_at"`
	Reason        string                   `bun:"reason"`
	Status        domain.AppointmentStatus `bun:"status"`
	CreatedAt     time.Time                `bun:"created_at"`
	UpdatedAt     time.Time                `bun:"updated_at"`
	DoctorName    string                   `bun:"doctor_name"`
	SpecialtyName string                   `bun:"specialty_name"`
	PatientName   string                   `bun:"patient_name"`
}

func (r *SchedulingRepo) ListAppointments(ctx context.Context, q store.AppointmentQuery) ([]store.AppointmentView, error) {
	sel := r.db.NewSelect().
		TableExpr("appointments AS a").
		ColumnExpr("a.id, a.patient_id, a.doctor_id, a.scheduled_at, a.reason, a.status, a.created_at, a.updated_at").
		ColumnExpr("d.full_name AS doctor_name").
		ColumnExpr("s.name AS specialty_name").
		ColumnExpr("p.first_name || ' ' || p.last_name AS patient_name").
		Join("JOIN doctors AS d ON d.id = a.doctor_id").
		Join("JOIN specialties AS s ON s.id = d.specialty_id").
		Join("JOIN patients AS p ON p.id = a.patient_id").
		OrderExpr("a.scheduled_at ASC")

	if q.PatientID != nil {
		sel = sel.Where("a.patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		sel = sel.Where("a.doctor_id = ?", *q.DoctorID)
	}
	if q.From != nil {
		sel = sel.Where("a.scheduled_at >= ?", *q.From)
	}
	if q.To != nil {
		sel = sel.Where("a.scheduled_at < ?", *q.To)
	}
	if q.Status != nil {
		sel = sel.Where("a.status = ?", *q.Status)
	}
	if q.DoctorName != "" {
		sel = sel.Where("d.full_name ILIKE ?", "%"+q.DoctorName+"%")
	}
	if q.PatientName != "" {
		pattern := "%" + q.PatientName + "%"
		sel = sel.Where("(p.first_name ILIKE ? OR p.last_name ILIKE ?)", pattern, pattern)
	}
	if q.SpecialtyID != nil {
		sel = sel.Where("d.specialty_id = ?", *q.SpecialtyID)
	}

	var rows []appointmentViewRow
	if err := sel.Scan(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]store.AppointmentView, 0, len(rows))
	for _, row := range rows {
		out = append(out, store.AppointmentView{
			Appointment: domain.Appointment{
				ID:          row.ID,
				PatientID:   row.PatientID,
				DoctorID:    row.DoctorID,
				ScheduledAt: row.ScheduledAt,
				Reason:      row.Reason,
				Status:      row.Status,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			},
			DoctorName:    row.DoctorName,
			SpecialtyName: row.SpecialtyName,
			PatientName:   row.PatientName,
		})
	}
	return out, nil
}

func (t scheduleTx) ListAvailabilityWindows(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := t.tx.NewSelect().
		Model(&rows).
		Where("doctor_id = ?", doctorID).
		OrderExpr("weekday ASC, start_minute ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t scheduleTx) ActiveAppointmentExistsAt(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	q := t.tx.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("doctor_id = ?", doctorID).
		Where("scheduled_at = ?", at).
		Where("status <> ?", domain.StatusCancelled)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	return q.Exists(ctx)
}

func (t scheduleTx) ActivePatientBookingExistsBetween(ctx context.Context, doctorID, patientID uuid.UUID, dayStart, dayEnd time.Time, excludeID uuid.UUID) (bool, error) {
	q := t.tx.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("doctor_id = ?", doctorID).
		Where("patient_id = ?", patientID).
		Where("scheduled_at >= ?", dayStart).
		Where("scheduled_at < ?", dayEnd).
		Where("status <> ?", domain.StatusCancelled)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	return q.Exists(ctx)
}

func (t scheduleTx) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := t.tx.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (t scheduleTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	if _, err := t.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapAppointmentConstraint(err)
	}
	return m, nil
}

func (t scheduleTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := t.tx.NewUpdate().
		Model(&m).
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapAppointmentConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

func (t scheduleTx) InsertEvent(ctx context.Context, ev domain.EventRecord) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := t.tx.NewInsert().Model(&ev).Exec(ctx)
	return err
}

// mapAppointmentConstraint translates unique-index violations raised by
// concurrent writers into the matching booking-conflict sentinels.
func mapAppointmentConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "appointments_doctor_slot_active_key":
		return store.ErrDoctorDoubleBooked
	case "appointments_patient_day_active_key":
		return store.ErrDuplicatePatientBooking
	}
	return err
}
