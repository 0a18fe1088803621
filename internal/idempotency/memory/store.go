package memory

import (
	"context"
	"sync"

	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

// Store keeps create-order responses in memory so retried requests replay
// the first answer instead of placing a second order.
type Store struct {
	mu    sync.RWMutex
	items map[string]ports.StoredResponse
}

func NewStore() *Store {
	return &Store{items: make(map[string]ports.StoredResponse)}
}

// Get returns nil, nil for an unknown key.
func (s *Store) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	value.Body = append([]byte(nil), value.Body...)
	return &value, nil
}

// Save keeps the first response stored for a key.
func (s *Store) Save(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; exists {
		return nil
	}
	response.Body = append([]byte(nil), response.Body...)
	s.items[key] = response
	return nil
}
