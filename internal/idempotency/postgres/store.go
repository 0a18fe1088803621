package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

const (
	selectResponse = `SELECT status_code, body, order_code FROM idempotency_keys WHERE key = @key`

	// First write wins; a retry racing the original request keeps the original.
	insertResponse = `
		INSERT INTO idempotency_keys (key, status_code, body, order_code)
		VALUES (@key, @status_code, @body, @order_code)
		ON CONFLICT (key) DO NOTHING`
)

// Store keeps replayable create-order responses in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns nil without an error for an unknown key.
func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	var resp ports.StoredResponse
	err := s.pool.QueryRow(ctx, selectResponse, pgx.NamedArgs{"key": key}).
		Scan(&resp.StatusCode, &resp.Body, &resp.OrderCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load idempotent response %q: %w", key, err)
	}
	return &resp, nil
}

func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	_, err := s.pool.Exec(ctx, insertResponse, pgx.NamedArgs{
		"key":         key,
		"status_code": response.StatusCode,
		"body":        response.Body,
		"order_code":  response.OrderCode,
	})
	if err != nil {
		return fmt.Errorf("save idempotent response %q: %w", key, err)
	}
	return nil
}
