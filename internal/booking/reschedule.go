package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/lifecycle"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/outbox"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
)

// Reschedule moves an appointment to a new start time without changing its
// identity. The appointment's current duration is preserved (it may have
// been manually edited away from the service default, which we honor), the
// new interval is re-validated excluding the appointment's own booking, and
// a rescheduled event carrying both times is emitted for staff visibility.
func (s *Service) Reschedule(ctx context.Context, appointmentID string, newStart time.Time) error {
	if newStart.IsZero() {
		return validationErr("new_time", "required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := s.appts.GetForUpdate(ctx, tx, appointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			return fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return err
	}

	// A reschedule passes through the rescheduled state and lands back on
	// confirmed; it is only legal where that round trip is.
	if appt.Status != lifecycle.StatusConfirmed && appt.Status != lifecycle.StatusRescheduled {
		return fmt.Errorf("%w: %s -> %s", lifecycle.ErrInvalidTransition, appt.Status, lifecycle.StatusRescheduled)
	}

	duration := appt.EndTime.Sub(appt.StartTime)
	newEnd := newStart.Add(duration)

	if err := storage.AcquireDayLock(ctx, tx, appt.ProfessionalID, newStart); err != nil {
		return err
	}
	taken, err := s.appts.OverlapExists(ctx, tx, appt.ProfessionalID, newStart, newEnd, appt.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotUnavailable
	}

	if err := s.appts.UpdateTimes(ctx, tx, appt.ID, newStart, newEnd); err != nil {
		if storage.IsConflict(err) {
			return ErrSlotUnavailable
		}
		return err
	}

	names := s.lookupNames(ctx, appt)
	payload := mustJSON(map[string]any{
		"appointment_id":    appt.ID,
		"client_name":       names.client,
		"client_email":      names.clientEmail,
		"service_name":      names.service,
		"professional_name": names.professional,
		"old_date":          appt.StartTime.Format("2006-01-02"),
		"old_time":          appt.StartTime.Format("15:04"),
		"new_date":          newStart.Format("2006-01-02"),
		"new_time":          newStart.Format("15:04"),
	})
	if err := s.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentRescheduled,
		Payload:       payload,
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if storage.IsConflict(err) {
			return ErrSlotUnavailable
		}
		return err
	}
	return nil
}
