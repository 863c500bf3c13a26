package model

import "time"

type Professional struct {
	ID       string
	Name     string
	IsActive bool
}

type Service struct {
	ID           string
	Name         string
	DurationMins int
	Price        string
}

// Client records are deduplicated by email: booking the same email twice
// resolves to the same row.
type Client struct {
	ID        string
	FullName  string
	Phone     string
	Email     string
	CreatedAt time.Time
}

// WeeklySchedule is one operating window for a weekday. Times are minutes
// since midnight; the interval is [StartMinute, EndMinute). A nil
// ProfessionalID means the row applies salon-wide unless a
// professional-specific row exists for the same weekday. Break minutes are
// both set or both nil. ExtraSlotMinutes lists explicit extra slot
// candidates outside the step grid (the closing-exception rule).
type WeeklySchedule struct {
	ID               string
	Weekday          int // 0 = Sunday .. 6 = Saturday
	ProfessionalID   *string
	StartMinute      int
	EndMinute        int
	BreakStartMinute *int
	BreakEndMinute   *int
	ExtraSlotMinutes []int
}
