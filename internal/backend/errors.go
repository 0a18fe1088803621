package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is shown when the backend rejects a request without
// saying why.
const DefaultErrorMessage = "Xatolik yuz berdi"

// ErrUnauthorized means the token is missing, expired or revoked.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError is a request the backend answered with success=false or an
// error status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Message extracts the operator-facing text from err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return DefaultErrorMessage
}
