package storage

import (
	"context"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

// CatalogRepository reads the scheduling inputs: services, professionals and
// weekly schedule rows. The core treats all of them as read-only.
type CatalogRepository struct {
	pool *db.Pool
}

func NewCatalogRepository(pool *db.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) GetService(ctx context.Context, serviceID string) (model.Service, error) {
	var s model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, duration_minutes, price::text
		FROM services
		WHERE id = $1
	`, serviceID).Scan(&s.ID, &s.Name, &s.DurationMins, &s.Price)
	return s, err
}

func (r *CatalogRepository) GetProfessional(ctx context.Context, professionalID string) (model.Professional, error) {
	var p model.Professional
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, is_active
		FROM professionals
		WHERE id = $1
	`, professionalID).Scan(&p.ID, &p.Name, &p.IsActive)
	return p, err
}

func (r *CatalogRepository) ListActiveProfessionals(ctx context.Context) ([]model.Professional, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, is_active
		FROM professionals
		WHERE is_active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Professional
	for rows.Next() {
		var p model.Professional
		if err := rows.Scan(&p.ID, &p.Name, &p.IsActive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *CatalogRepository) ListWeeklySchedules(ctx context.Context, weekday int) ([]model.WeeklySchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, weekday, professional_id::text, start_minute, end_minute,
			break_start_minute, break_end_minute, COALESCE(extra_slot_minutes, '{}')
		FROM weekly_schedules
		WHERE weekday = $1
		ORDER BY professional_id NULLS LAST
	`, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WeeklySchedule
	for rows.Next() {
		var ws model.WeeklySchedule
		var professionalID *string
		var breakStart, breakEnd *int
		if err := rows.Scan(&ws.ID, &ws.Weekday, &professionalID, &ws.StartMinute, &ws.EndMinute,
			&breakStart, &breakEnd, &ws.ExtraSlotMinutes); err != nil {
			return nil, err
		}
		ws.ProfessionalID = professionalID
		ws.BreakStartMinute = breakStart
		ws.BreakEndMinute = breakEnd
		out = append(out, ws)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
