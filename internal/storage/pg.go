package storage

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsConflict reports an exclusion-constraint violation (SQLSTATE 23P01), the
// database-level backstop against overlapping appointments.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// AcquireDayLock serializes validate-then-write for one professional on one
// date. The transaction-scoped advisory lock is released on commit/rollback.
func AcquireDayLock(ctx context.Context, tx pgx.Tx, professionalID string, date time.Time) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, dayLockKey(professionalID, date))
	return err
}

func dayLockKey(professionalID string, date time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(professionalID))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(date.Format("2006-01-02")))
	return int64(h.Sum64())
}
