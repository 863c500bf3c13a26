package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/lifecycle"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/outbox"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
)

// UpdateStatus applies staff-requested changes to one or both status tracks.
// The tracks evolve independently: completing an appointment does not touch
// its payment_status. Invalid transitions fail without partial mutation.
// reason is free text carried on the cancelled event when the change is a
// cancellation.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID string, status, paymentStatus *string, reason string) error {
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

	newStatus := appt.Status
	if status != nil {
		if err := lifecycle.CheckStatus(appt.Status, *status); err != nil {
			return err
		}
		newStatus = *status
	}
	newPayment := appt.PaymentStatus
	if paymentStatus != nil {
		if err := lifecycle.CheckPayment(appt.PaymentStatus, *paymentStatus); err != nil {
			return err
		}
		newPayment = *paymentStatus
	}
	if newStatus == appt.Status && newPayment == appt.PaymentStatus {
		return tx.Commit(ctx)
	}

	if err := s.appts.UpdateStatuses(ctx, tx, appointmentID, newStatus, newPayment); err != nil {
		return err
	}

	if newStatus == lifecycle.StatusCancelled && appt.Status != lifecycle.StatusCancelled {
		if err := s.emitCancelled(ctx, tx, appt, reason); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Service) emitCancelled(ctx context.Context, tx pgx.Tx, appt model.Appointment, reason string) error {
	names := s.lookupNames(ctx, appt)
	payload := mustJSON(map[string]any{
		"appointment_id":    appt.ID,
		"client_name":       names.client,
		"client_email":      names.clientEmail,
		"service_name":      names.service,
		"professional_name": names.professional,
		"date":              appt.StartTime.Format("2006-01-02"),
		"time":              appt.StartTime.Format("15:04"),
		"reason":            reason,
	})
	return s.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentCancelled,
		Payload:       payload,
	})
}

type relatedNames struct {
	client       string
	clientEmail  string
	service      string
	professional string
}

// lookupNames enriches event payloads. Lookups are best-effort: a missing
// catalog row degrades the payload, it does not fail the state change.
func (s *Service) lookupNames(ctx context.Context, appt model.Appointment) relatedNames {
	var n relatedNames
	if c, err := s.clients.Get(ctx, appt.ClientID); err == nil {
		n.client = c.FullName
		n.clientEmail = c.Email
	} else {
		s.logger.Warn("client lookup failed for event payload", "err", err, "client_id", appt.ClientID)
	}
	if svc, err := s.catalog.GetService(ctx, appt.ServiceID); err == nil {
		n.service = svc.Name
	}
	if pro, err := s.catalog.GetProfessional(ctx, appt.ProfessionalID); err == nil {
		n.professional = pro.Name
	}
	return n
}
