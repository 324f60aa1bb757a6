package utils

import (
	"errors"
	"net/http"
)

// Error taxonomy shared by handlers and middlewares. Messages are what
// clients see.
var (
	ErrValidation         = errors.New("Validation failed")
	ErrBadRequest         = errors.New("Bad request")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrMissingCredentials = errors.New("Missing credentials")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrTokenExpired       = errors.New("Token expired")
	ErrForbidden          = errors.New("Forbidden")
	ErrNotFound           = errors.New("Not found")
	ErrTooManyRequests    = errors.New("Too many attempts, please wait a moment")
	ErrStore              = errors.New("database error")
)

// StoreFailure wraps an error raised by the document store. Only a
// truncated diagnostic leaves the process.
type StoreFailure struct {
	Err error
}

func NewStoreFailure(err error) error {
	return &StoreFailure{Err: err}
}

func (e *StoreFailure) Error() string {
	return ErrStore.Error() + ": " + Truncate(e.Err.Error(), 50)
}

func (e *StoreFailure) Unwrap() []error {
	return []error{ErrStore, e.Err}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
