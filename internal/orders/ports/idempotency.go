package ports

import "context"

// StoredResponse is the response replayed when a create request is retried
// with the same Idempotency-Key.
type StoredResponse struct {
	StatusCode int
	Body       []byte
	OrderCode  string
}

// IdempotencyStore remembers responses of create requests by key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, response StoredResponse) error
}
