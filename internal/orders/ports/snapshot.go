package ports

import (
	"context"
	"errors"
	"time"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

// Snapshot is the last order list fetched from the backend, in backend order.
type Snapshot struct {
	Orders      []domain.Order
	RefreshedAt time.Time
}

// SnapshotStore keeps the latest order snapshot. Implementations must be safe
// for concurrent use and must hand out copies.
type SnapshotStore interface {
	Replace(ctx context.Context, orders []domain.Order, at time.Time) error
	Prepend(ctx context.Context, order domain.Order) error
	Load(ctx context.Context) (Snapshot, error)
}

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
