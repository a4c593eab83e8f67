package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is logged at startup when no bearer token is configured.
	// Requests are still sent and fail upstream with 401.
	ErrMissingToken = errors.New("catalog API token is not configured")
)

// DefaultFailureMessage is used when the upstream declares failure without
// an explanation.
const DefaultFailureMessage = "Failed to fetch movies"

// APIError is a non-2xx response from the catalog API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error: status %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// FailureError is a well-formed response whose body declares failure.
// Message is safe to show to the user.
type FailureError struct {
	Message string
}

func (e *FailureError) Error() string {
	return e.Message
}
