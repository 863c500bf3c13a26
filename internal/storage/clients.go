package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/model"
	"github.com/navirastartup/studio-donna-patty-sub000/libs/db"
)

type ClientRepository struct {
	pool *db.Pool
}

func NewClientRepository(pool *db.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// ResolveOrCreate finds the client by email or creates the row. Email is the
// natural dedup key; on a hit the name and phone are refreshed with the
// values just supplied.
func (r *ClientRepository) ResolveOrCreate(ctx context.Context, tx pgx.Tx, fullName, phone, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO clients (id, full_name, phone, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			updated_at = now()
		RETURNING id::text
	`, uuid.NewString(), fullName, phone, email).Scan(&id)
	return id, err
}

func (r *ClientRepository) Get(ctx context.Context, clientID string) (model.Client, error) {
	var c model.Client
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, full_name, phone, email, created_at
		FROM clients
		WHERE id = $1
	`, clientID).Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.CreatedAt)
	return c, err
}
