package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

// IdempotencyRecord is the stored outcome of a keyed checkout. StatusCode 0
// means the key is claimed but the checkout never finalized (crashed or hit
// a dependency error); such keys are retryable.
type IdempotencyRecord struct {
	Key             string
	StatusCode      int
	ResponsePayload []byte
}

type IdempotencyRepository struct {
	pool *db.Pool
}

func NewIdempotencyRepository(pool *db.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

func (r *IdempotencyRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// LockKey claims the key inside the caller's transaction. The FOR UPDATE
// serializes concurrent submissions of the same key: the second caller
// blocks here until the first commits, then sees its finalized record.
func (r *IdempotencyRepository) LockKey(ctx context.Context, tx pgx.Tx, key string) (IdempotencyRecord, bool, error) {
	rec, err := r.selectForUpdate(ctx, tx, key)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return IdempotencyRecord{}, false, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_idempotency_keys (idempotency_key)
		VALUES ($1)
		ON CONFLICT (idempotency_key) DO NOTHING
	`, key)
	if err != nil {
		return IdempotencyRecord{}, false, err
	}

	rec, err = r.selectForUpdate(ctx, tx, key)
	if err != nil {
		return IdempotencyRecord{}, false, err
	}
	return rec, false, nil
}

func (r *IdempotencyRepository) Finalize(ctx context.Context, tx pgx.Tx, key string, statusCode int, response []byte) error {
	_, err := tx.Exec(ctx, `
		UPDATE booking_idempotency_keys
		SET status_code = $2,
			response_payload = $3,
			updated_at = now()
		WHERE idempotency_key = $1
	`, key, statusCode, response)
	return err
}

func (r *IdempotencyRepository) selectForUpdate(ctx context.Context, tx pgx.Tx, key string) (IdempotencyRecord, error) {
	var rec IdempotencyRecord
	err := tx.QueryRow(ctx, `
		SELECT idempotency_key, COALESCE(status_code, 0), COALESCE(response_payload::text, '')
		FROM booking_idempotency_keys
		WHERE idempotency_key = $1
		FOR UPDATE
	`, key).Scan(&rec.Key, &rec.StatusCode, &rec.ResponsePayload)
	return rec, err
}
