package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/lifecycle"
	"github.com/navirastartup/studio-donna-patty-sub000/internal/storage"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

var (
	ErrMissingPaymentID = errors.New("provider_payment_id is required")
	ErrMissingStatus    = errors.New("provider_status is required")
)

// CallbackEvent is one asynchronous gateway notification. Delivery is
// at-least-once and possibly out of order; Apply must be safe to replay.
type CallbackEvent struct {
	ProviderPaymentID    string `json:"provider_payment_id"`
	ProviderStatus       string `json:"provider_status"`
	AppointmentReference string `json:"appointment_reference,omitempty"`
}

func (e CallbackEvent) Validate() error {
	if strings.TrimSpace(e.ProviderPaymentID) == "" {
		return ErrMissingPaymentID
	}
	if strings.TrimSpace(e.ProviderStatus) == "" {
		return ErrMissingStatus
	}
	return nil
}

// Result reports what a reconciliation did. Unmatched and duplicate events
// are acknowledged no-ops, not errors: the event may belong to a payment
// created outside this flow, and pushing an error back at the gateway only
// triggers a redelivery storm.
type Result struct {
	Matched   bool
	Duplicate bool
	PaymentID string
}

type Reconciler struct {
	pool     *db.Pool
	payments *storage.PaymentRepository
	appts    *storage.AppointmentRepository
	logger   *slog.Logger
}

func NewReconciler(pool *db.Pool, payments *storage.PaymentRepository, appts *storage.AppointmentRepository, logger *slog.Logger) *Reconciler {
	return &Reconciler{pool: pool, payments: payments, appts: appts, logger: logger}
}

// Apply reconciles one gateway event: exact replays short-circuit on the
// provider-event ledger, the payment is matched by provider payment id with
// a fallback on the provider checkout reference, and every status write is
// gated by the transition tables so the upsert is idempotent.
func (r *Reconciler) Apply(ctx context.Context, evt CallbackEvent) (Result, error) {
	mapping, known := MapProviderStatus(evt.ProviderStatus)
	if !known {
		r.logger.Warn("unknown provider payment status ignored",
			"provider_payment_id", evt.ProviderPaymentID,
			"provider_status", evt.ProviderStatus,
		)
		return Result{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	payload, _ := json.Marshal(evt)
	if err := r.payments.RecordProviderEvent(ctx, tx, evt.ProviderPaymentID, evt.ProviderStatus, payload); err != nil {
		if errors.Is(err, storage.ErrDuplicateProviderEvent) {
			_ = tx.Commit(ctx)
			return Result{Duplicate: true}, nil
		}
		return Result{}, err
	}

	payment, err := r.payments.GetByProviderPaymentIDForUpdate(ctx, tx, evt.ProviderPaymentID)
	if err != nil {
		if !storage.IsNotFound(err) {
			return Result{}, err
		}
		if strings.TrimSpace(evt.AppointmentReference) == "" {
			return r.ackUnmatched(ctx, tx, evt)
		}
		payment, err = r.payments.GetByProviderReferenceForUpdate(ctx, tx, evt.AppointmentReference)
		if err != nil {
			if storage.IsNotFound(err) {
				return r.ackUnmatched(ctx, tx, evt)
			}
			return Result{}, err
		}
	}

	if mapping.RowStatus != "" && canTransitionRow(payment.Status, mapping.RowStatus) {
		if err := r.payments.UpdateFromProvider(ctx, tx, payment.ID, mapping.RowStatus, evt.ProviderPaymentID, time.Now()); err != nil {
			return Result{}, err
		}
	}

	if payment.AppointmentID != nil {
		if err := r.applyToAppointment(ctx, tx, *payment.AppointmentID, mapping); err != nil {
			return Result{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, err
	}
	return Result{Matched: true, PaymentID: payment.ID}, nil
}

func (r *Reconciler) applyToAppointment(ctx context.Context, tx pgx.Tx, appointmentID string, mapping Mapping) error {
	appt, err := r.appts.GetForUpdate(ctx, tx, appointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			// Payment points at an appointment deleted administratively.
			r.logger.Warn("payment references missing appointment", "appointment_id", appointmentID)
			return nil
		}
		return err
	}

	newPayment := appt.PaymentStatus
	if mapping.PaymentStatus != "" && lifecycle.CanTransitionPayment(appt.PaymentStatus, mapping.PaymentStatus) {
		newPayment = mapping.PaymentStatus
	}
	newStatus := appt.Status
	if mapping.AppointmentStatus != "" && lifecycle.CanTransitionStatus(appt.Status, mapping.AppointmentStatus) {
		newStatus = mapping.AppointmentStatus
	}

	if newPayment == appt.PaymentStatus && newStatus == appt.Status {
		return nil
	}
	return r.appts.UpdateStatuses(ctx, tx, appointmentID, newStatus, newPayment)
}

func (r *Reconciler) ackUnmatched(ctx context.Context, tx pgx.Tx, evt CallbackEvent) (Result, error) {
	// Roll back, discarding the ledger row written above: the payment may be
	// created after this delivery, and the gateway's redelivery must then
	// apply rather than short-circuit as a duplicate.
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return Result{}, err
	}
	r.logger.Info("payment event unmatched; acknowledged without mutation",
		"provider_payment_id", evt.ProviderPaymentID,
		"provider_status", evt.ProviderStatus,
		"appointment_reference", evt.AppointmentReference,
	)
	return Result{Matched: false}, nil
}
