// Package sqlite keeps the order snapshot in a local SQLite file, for single
// node deployments that want the board to survive restarts without Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore wraps an open handle whose schema is already migrated.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) Replace(ctx context.Context, orders []domain.Order, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_snapshots`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_snapshots (position, code, status, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range orders {
		payload, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("encode order %s: %w", o.Code, err)
		}
		if _, err := stmt.ExecContext(ctx, i, o.Code, string(o.Status), string(payload)); err != nil {
			return fmt.Errorf("insert order %s: %w", o.Code, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, refreshed_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET refreshed_at = excluded.refreshed_at
	`, at.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("update snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Prepend(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", order.Code, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO order_snapshots (position, code, status, payload)
		SELECT COALESCE(MIN(position), 0) - 1, ?, ?, ? FROM order_snapshots
	`, order.Code, string(order.Status), string(payload))
	if err != nil {
		return fmt.Errorf("prepend order: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context) (ports.Snapshot, error) {
	// Both reads share one transaction so a concurrent Replace is seen whole.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("begin load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var snap ports.Snapshot

	var refreshed string
	err = tx.QueryRowContext(ctx, `SELECT refreshed_at FROM snapshot_meta WHERE id = 1`).Scan(&refreshed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return ports.Snapshot{}, fmt.Errorf("select snapshot meta: %w", err)
	default:
		if snap.RefreshedAt, err = time.Parse(time.RFC3339Nano, refreshed); err != nil {
			return ports.Snapshot{}, fmt.Errorf("parse refreshed_at: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, `SELECT payload FROM order_snapshots ORDER BY position`)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return ports.Snapshot{}, fmt.Errorf("scan snapshot row: %w", err)
		}
		var o domain.Order
		if err := json.Unmarshal([]byte(payload), &o); err != nil {
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
	return s.db.PingContext(ctx)
}
