package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

var ErrDuplicateProviderEvent = errors.New("duplicate provider event")

type PaymentRepository struct {
	pool *db.Pool
}

func NewPaymentRepository(pool *db.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *PaymentRepository) Insert(ctx context.Context, tx pgx.Tx, p *model.Payment) (string, error) {
	id := uuid.NewString()
	_, err := tx.Exec(ctx, `
		INSERT INTO payments
			(id, appointment_id, amount, method, status, payment_date, provider_payment_id, provider_reference)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''))
	`, id, p.AppointmentID, p.Amount, p.Method, p.Status, p.PaymentDate,
		p.ProviderPaymentID, p.ProviderReference)
	if err != nil {
		return "", err
	}
	return id, nil
}

const paymentColumns = `
	id::text, appointment_id::text, amount::text, method, status, payment_date,
	COALESCE(provider_payment_id, ''), COALESCE(provider_reference, ''), created_at`

func scanPayment(row pgx.Row) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID,
		&p.AppointmentID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.PaymentDate,
		&p.ProviderPaymentID,
		&p.ProviderReference,
		&p.CreatedAt,
	)
	return p, err
}

// GetByProviderPaymentIDForUpdate locks the payment row matched by the
// gateway-assigned id, serializing concurrent callbacks for the same payment.
func (r *PaymentRepository) GetByProviderPaymentIDForUpdate(ctx context.Context, tx pgx.Tx, providerPaymentID string) (model.Payment, error) {
	return scanPayment(tx.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE provider_payment_id = $1
		FOR UPDATE
	`, providerPaymentID))
}

// GetByProviderReferenceForUpdate is the secondary lookup: the gateway's
// checkout "preference" reference recorded when the payment was initiated.
func (r *PaymentRepository) GetByProviderReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (model.Payment, error) {
	return scanPayment(tx.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE provider_reference = $1
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, reference))
}

func (r *PaymentRepository) UpdateFromProvider(ctx context.Context, tx pgx.Tx, paymentID, status, providerPaymentID string, paymentDate time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE payments
		SET status = $2,
			provider_payment_id = COALESCE(provider_payment_id, NULLIF($3, '')),
			payment_date = $4,
			updated_at = now()
		WHERE id = $1
	`, paymentID, status, providerPaymentID, paymentDate)
	return err
}

// RecordProviderEvent dedups exact callback replays on the
// (provider_payment_id, provider_status) pair.
func (r *PaymentRepository) RecordProviderEvent(ctx context.Context, tx pgx.Tx, providerPaymentID, providerStatus string, payload []byte) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO provider_events (provider_payment_id, provider_status, payload)
		VALUES ($1, $2, $3)
	`, providerPaymentID, providerStatus, payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateProviderEvent
		}
		return err
	}
	return nil
}
