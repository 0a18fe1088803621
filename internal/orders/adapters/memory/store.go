package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

// SnapshotStore keeps the order snapshot in process memory.
type SnapshotStore struct {
	mu          sync.RWMutex
	orders      []domain.Order
	refreshedAt time.Time
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Replace swaps the whole snapshot.
func (s *SnapshotStore) Replace(_ context.Context, orders []domain.Order, at time.Time) error {
	cp := slices.Clone(orders)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = cp
	s.refreshedAt = at
	return nil
}

// Prepend puts a freshly created order at the head of the snapshot.
func (s *SnapshotStore) Prepend(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Order, 0, len(s.orders)+1)
	next = append(next, order)
	s.orders = append(next, s.orders...)
	return nil
}

// Load returns a copy of the snapshot.
func (s *SnapshotStore) Load(_ context.Context) (ports.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ports.Snapshot{
		Orders:      slices.Clone(s.orders),
		RefreshedAt: s.refreshedAt,
	}, nil
}

// Ping always succeeds.
func (s *SnapshotStore) Ping(context.Context) error { return nil }
