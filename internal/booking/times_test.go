package booking

import (
	"testing"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
)

func TestEndTime(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	end := EndTime(start, 60)
	if !end.Equal(start.Add(time.Hour)) {
		t.Fatalf("expected 15:00, got %s", end.Format("15:04"))
	}
	end = EndTime(start, 45)
	if end.Format("15:04") != "14:45" {
		t.Fatalf("expected 14:45, got %s", end.Format("15:04"))
	}
}

func TestDayBoundsAndAt(t *testing.T) {
	ts := time.Date(2026, 3, 10, 14, 37, 12, 0, time.Local)
	dayStart, dayEnd := DayBounds(ts)
	if dayStart.Hour() != 0 || dayStart.Day() != 10 {
		t.Fatalf("unexpected day start %s", dayStart)
	}
	if dayEnd.Sub(dayStart) != 24*time.Hour {
		t.Fatalf("expected 24h day, got %s", dayEnd.Sub(dayStart))
	}
	at := At(ts, 540)
	if at.Format("15:04") != "09:00" {
		t.Fatalf("expected 09:00, got %s", at.Format("15:04"))
	}
}

func TestBusyIntervals(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	appts := []model.Appointment{
		{StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour)},
		{StartTime: day.Add(14*time.Hour + 30*time.Minute), EndTime: day.Add(15 * time.Hour)},
	}
	got := busyIntervals(appts, day)
	if len(got) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(got))
	}
	if got[0].Start != 540 || got[0].End != 600 {
		t.Fatalf("unexpected first interval %+v", got[0])
	}
	if got[1].Start != 870 || got[1].End != 900 {
		t.Fatalf("unexpected second interval %+v", got[1])
	}
}

func TestValidationError(t *testing.T) {
	err := validationErr("client.email", "required")
	if !IsValidation(err) {
		t.Fatal("expected a validation error")
	}
	if IsValidation(ErrSlotUnavailable) {
		t.Fatal("sentinel must not look like a validation error")
	}
}
