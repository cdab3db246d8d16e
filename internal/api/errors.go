package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSuccess: backend ответил 2xx, но status в конверте не "success".
	ErrNotSuccess = errors.New("api: envelope status is not success")
	ErrNoToken    = errors.New("api: bearer token is not set")
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound сообщает, что backend вернул 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
