package schedule

import (
	"context"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/availability"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
)

// Rows is the catalog's read dependency; satisfied by storage.CatalogRepository.
type Rows interface {
	ListWeeklySchedules(ctx context.Context, weekday int) ([]model.WeeklySchedule, error)
}

// Catalog resolves the effective operating window for a (date, professional)
// pair from the weekly schedule rows.
type Catalog struct {
	rows Rows
}

func NewCatalog(rows Rows) *Catalog {
	return &Catalog{rows: rows}
}

// WindowFor returns the effective window for the date's weekday, or ok=false
// when the salon is closed for that professional on that day.
func (c *Catalog) WindowFor(ctx context.Context, date time.Time, professionalID string) (availability.Window, bool, error) {
	rows, err := c.rows.ListWeeklySchedules(ctx, int(date.Weekday()))
	if err != nil {
		return availability.Window{}, false, err
	}
	row, ok := Resolve(rows, professionalID)
	if !ok {
		return availability.Window{}, false, nil
	}
	return ToWindow(row), true, nil
}

// Resolve picks the single effective row for a professional from the rows of
// one weekday. A professional-specific row wins over the salon-wide row; the
// two are never merged. No row at all means the day is closed.
func Resolve(rows []model.WeeklySchedule, professionalID string) (model.WeeklySchedule, bool) {
	var general model.WeeklySchedule
	var haveGeneral bool
	for _, row := range rows {
		if row.ProfessionalID != nil {
			if professionalID != "" && *row.ProfessionalID == professionalID {
				return row, true
			}
			continue
		}
		if !haveGeneral {
			general = row
			haveGeneral = true
		}
	}
	return general, haveGeneral
}

// ToWindow projects a schedule row onto the slot generator's window shape.
func ToWindow(row model.WeeklySchedule) availability.Window {
	w := availability.Window{
		Start:           row.StartMinute,
		End:             row.EndMinute,
		BreakStart:      -1,
		BreakEnd:        -1,
		ExtraCandidates: row.ExtraSlotMinutes,
	}
	if row.BreakStartMinute != nil && row.BreakEndMinute != nil {
		w.BreakStart = *row.BreakStartMinute
		w.BreakEnd = *row.BreakEndMinute
	}
	return w
}
