package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

type Store struct {
	db *sql.DB
}

// NewStore wraps a migrated SQLite handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	var resp ports.StoredResponse
	err := s.db.QueryRowContext(ctx,
		`SELECT status_code, body, order_code FROM idempotency_keys WHERE key = ?`, key,
	).Scan(&resp.StatusCode, &resp.Body, &resp.OrderCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select idempotency key: %w", err)
	}
	return &resp, nil
}

func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO idempotency_keys (key, status_code, body, order_code) VALUES (?, ?, ?, ?)
		 ON CONFLICT (key) DO NOTHING`,
		key, response.StatusCode, response.Body, response.OrderCode,
	)
	if err != nil {
		return fmt.Errorf("insert idempotency key: %w", err)
	}
	return nil
}
