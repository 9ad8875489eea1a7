package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned by a store unwraps to at most one of these.
var (
	ErrAuth         = errors.New("authentication failed")
	ErrVerification = errors.New("verification failed")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
	ErrBusy         = errors.New("operation already in progress")
	ErrForbidden    = errors.New("access forbidden")
)

// GatewayError is a failed call to the remote backend. Message comes from the
// response body when present, else the HTTP status text.
type GatewayError struct {
	Kind    error
	Op      string
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Kind }

// KindForStatus maps an HTTP status from the backend to an error kind.
// rejected, when non-nil, classifies every 4xx answer; login and verification
// use it so any rejection surfaces as ErrAuth or ErrVerification.
func KindForStatus(status int, rejected error) error {
	if status >= 400 && status < 500 && rejected != nil {
		return rejected
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusNotFound:
		return ErrNotFound
	}
	return ErrNetwork
}

// ValidationError rejects input locally, before any backend call is made.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
