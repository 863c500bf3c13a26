package booking

import (
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/availability"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
)

// EndTime is the single authoritative end-time derivation used by every
// booking path. Caller-supplied end times are never trusted; upstream date
// arithmetic has been a repeat source of off-by-one bookings.
func EndTime(start time.Time, durationMins int) time.Time {
	return start.Add(time.Duration(durationMins) * time.Minute)
}

// DayBounds returns the half-open [midnight, next midnight) range containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return dayStart, dayStart.Add(24 * time.Hour)
}

// At places a minute-of-day on a date.
func At(date time.Time, minute int) time.Time {
	dayStart, _ := DayBounds(date)
	return dayStart.Add(time.Duration(minute) * time.Minute)
}

// busyIntervals projects appointments onto minute-of-day intervals for the
// slot generator.
func busyIntervals(appts []model.Appointment, dayStart time.Time) []availability.Interval {
	out := make([]availability.Interval, 0, len(appts))
	for _, a := range appts {
		out = append(out, availability.Interval{
			Start: int(a.StartTime.Sub(dayStart).Minutes()),
			End:   int(a.EndTime.Sub(dayStart).Minutes()),
		})
	}
	return out
}
