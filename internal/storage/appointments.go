package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const appointmentColumns = `
	id::text, service_id::text, professional_id::text, client_id::text,
	start_time, end_time, status, payment_status, COALESCE(notes, ''),
	is_manual, created_at, updated_at`

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.ServiceID,
		&a.ProfessionalID,
		&a.ClientID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.PaymentStatus,
		&a.Notes,
		&a.IsManual,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *AppointmentRepository) Insert(ctx context.Context, tx pgx.Tx, a *model.Appointment) (string, error) {
	id := uuid.NewString()
	_, err := tx.Exec(ctx, `
		INSERT INTO appointments
			(id, service_id, professional_id, client_id, start_time, end_time, status, payment_status, notes, is_manual)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, a.ServiceID, a.ProfessionalID, a.ClientID, a.StartTime, a.EndTime,
		a.Status, a.PaymentStatus, a.Notes, a.IsManual)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *AppointmentRepository) Get(ctx context.Context, appointmentID string) (model.Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, appointmentID))
}

func (r *AppointmentRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, appointmentID string) (model.Appointment, error) {
	return scanAppointment(tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, appointmentID))
}

// OverlapExists re-evaluates the half-open conflict predicate against current
// data inside the caller's transaction. excludeID skips the appointment's own
// row on reschedule. Cancelled appointments never block.
func (r *AppointmentRepository) OverlapExists(ctx context.Context, tx pgx.Tx, professionalID string, start, end time.Time, excludeID string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM appointments
			WHERE professional_id = $1
				AND status <> 'cancelled'
				AND start_time < $3
				AND end_time > $2
				AND ($4 = '' OR id::text <> $4)
		)
	`, professionalID, start, end, excludeID).Scan(&exists)
	return exists, err
}

// ListBookedIntervals is the conflict snapshot used to filter offered slots:
// every non-cancelled appointment for the professional starting on the date.
func (r *AppointmentRepository) ListBookedIntervals(ctx context.Context, professionalID string, dayStart, dayEnd time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE professional_id = $1
			AND status <> 'cancelled'
			AND start_time >= $2
			AND start_time < $3
		ORDER BY start_time
	`, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentRepository) ListByProfessionalDay(ctx context.Context, professionalID string, dayStart, dayEnd time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE professional_id = $1
			AND start_time >= $2
			AND start_time < $3
		ORDER BY start_time
	`, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *AppointmentRepository) UpdateStatuses(ctx context.Context, tx pgx.Tx, appointmentID, status, paymentStatus string) error {
	_, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = $2,
			payment_status = $3,
			updated_at = now()
		WHERE id = $1
	`, appointmentID, status, paymentStatus)
	return err
}

// UpdateTimes moves an appointment to a new interval, preserving its identity.
func (r *AppointmentRepository) UpdateTimes(ctx context.Context, tx pgx.Tx, appointmentID string, start, end time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE appointments
		SET start_time = $2,
			end_time = $3,
			status = 'confirmed',
			updated_at = now()
		WHERE id = $1
	`, appointmentID, start, end)
	return err
}

func collectAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
