package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

// SnapshotStore persists the order snapshot in PostgreSQL. Rows are ordered
// by position; prepending takes a position below the current minimum.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

func (s *SnapshotStore) Replace(ctx context.Context, orders []domain.Order, at time.Time) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_snapshots`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	if len(orders) > 0 {
		rows := make([][]any, 0, len(orders))
		for i, o := range orders {
			payload, err := json.Marshal(o)
			if err != nil {
				return fmt.Errorf("encode order %s: %w", o.Code, err)
			}
			rows = append(rows, []any{int64(i), o.Code, string(o.Status), payload})
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"order_snapshots"},
			[]string{"position", "code", "status", "payload"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy snapshot rows: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO snapshot_meta (id, refreshed_at) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET refreshed_at = EXCLUDED.refreshed_at
	`, at); err != nil {
		return fmt.Errorf("update snapshot meta: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Prepend(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", order.Code, err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialise concurrent prepends so positions stay unique.
	if _, err := tx.Exec(ctx, `LOCK TABLE order_snapshots IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock snapshot: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_snapshots (position, code, status, payload)
		SELECT COALESCE(MIN(position), 0) - 1, $1, $2, $3 FROM order_snapshots
	`, order.Code, string(order.Status), payload); err != nil {
		return fmt.Errorf("prepend order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit prepend: %w", err)
	}
	return nil
}

// Load reads the meta row and the orders from one read-only snapshot, so a
// concurrent Replace is seen either entirely or not at all.
func (s *SnapshotStore) Load(ctx context.Context) (ports.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("begin load: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var snap ports.Snapshot

	err = tx.QueryRow(ctx, `SELECT refreshed_at FROM snapshot_meta WHERE id = 1`).Scan(&snap.RefreshedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return ports.Snapshot{}, fmt.Errorf("select snapshot meta: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT payload FROM order_snapshots ORDER BY position`)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return ports.Snapshot{}, fmt.Errorf("scan snapshot row: %w", err)
		}
		var o domain.Order
		if err := json.Unmarshal(payload, &o); err != nil {
			return ports.Snapshot{}, fmt.Errorf("decode snapshot row: %w", err)
		}
		snap.Orders = append(snap.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return ports.Snapshot{}, fmt.Errorf("iterate snapshot: %w", err)
	}

	return snap, nil
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
