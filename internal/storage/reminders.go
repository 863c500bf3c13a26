package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

type ReminderRepository struct {
	pool *db.Pool
}

func NewReminderRepository(pool *db.Pool) *ReminderRepository {
	return &ReminderRepository{pool: pool}
}

func (r *ReminderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// UpcomingAppointment carries the joined context a reminder dispatch needs.
type UpcomingAppointment struct {
	AppointmentID    string
	StartTime        time.Time
	Status           string
	ClientName       string
	ClientPhone      string
	ClientEmail      string
	ServiceName      string
	ProfessionalName string
}

// ListUpcoming returns non-cancelled appointments starting inside
// (now, horizon], joined with the names the reminder payload needs.
func (r *ReminderRepository) ListUpcoming(ctx context.Context, now, horizon time.Time) ([]UpcomingAppointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id::text, a.start_time, a.status,
			c.full_name, c.phone, c.email,
			s.name, p.name
		FROM appointments a
		JOIN clients c ON c.id = a.client_id
		JOIN services s ON s.id = a.service_id
		JOIN professionals p ON p.id = a.professional_id
		WHERE a.status <> 'cancelled'
			AND a.start_time > $1
			AND a.start_time <= $2
		ORDER BY a.start_time
	`, now, horizon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UpcomingAppointment
	for rows.Next() {
		var u UpcomingAppointment
		if err := rows.Scan(&u.AppointmentID, &u.StartTime, &u.Status,
			&u.ClientName, &u.ClientPhone, &u.ClientEmail,
			&u.ServiceName, &u.ProfessionalName); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// TryMarkSent inserts the dedup record for (appointment_id, reminder_type).
// It reports false when the record already exists, in which case the caller
// must not dispatch again. Record existence is the sole idempotency guard.
func (r *ReminderRepository) TryMarkSent(ctx context.Context, tx pgx.Tx, appointmentID, reminderType string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO reminders_sent (appointment_id, reminder_type)
		VALUES ($1, $2)
		ON CONFLICT (appointment_id, reminder_type) DO NOTHING
	`, appointmentID, reminderType)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
