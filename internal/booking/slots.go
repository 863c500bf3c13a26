package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/availability"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
)

// AvailableSlots computes the bookable HH:MM start times for a date and
// service. With an empty professionalID the result is the union over every
// active professional ("any professional" in the booking UI). An empty list
// is a valid answer, never an error.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time, serviceID, professionalID string) ([]string, error) {
	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
		}
		return nil, err
	}

	if professionalID != "" {
		if _, err := s.catalog.GetProfessional(ctx, professionalID); err != nil {
			if storage.IsNotFound(err) {
				return nil, fmt.Errorf("professional %s: %w", professionalID, ErrNotFound)
			}
			return nil, err
		}
		mins, err := s.slotMinutes(ctx, date, svc.DurationMins, professionalID)
		if err != nil {
			return nil, err
		}
		return availability.FormatMinutes(mins), nil
	}

	pros, err := s.catalog.ListActiveProfessionals(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var union []int
	for _, pro := range pros {
		mins, err := s.slotMinutes(ctx, date, svc.DurationMins, pro.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range mins {
			if !seen[m] {
				seen[m] = true
				union = append(union, m)
			}
		}
	}
	sort.Ints(union)
	return availability.FormatMinutes(union), nil
}

func (s *Service) slotMinutes(ctx context.Context, date time.Time, durationMins int, professionalID string) ([]int, error) {
	window, open, err := s.windows.WindowFor(ctx, date, professionalID)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, nil
	}

	dayStart, dayEnd := DayBounds(date)
	booked, err := s.appts.ListBookedIntervals(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return availability.StartTimes(window, durationMins, s.cfg.SlotStepMins, busyIntervals(booked, dayStart)), nil
}
