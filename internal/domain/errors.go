package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned across a component boundary matches
// exactly one of these with errors.Is.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUpstream         = errors.New("upstream failure")
)

// Input errors
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrInvalidInput)
	ErrDuplicateEmail     = fmt.Errorf("%w: email already registered", ErrInvalidInput)
	ErrInvalidEvent       = fmt.Errorf("%w: invalid event type", ErrInvalidInput)
	ErrMissingFields      = fmt.Errorf("%w: missing required fields", ErrInvalidInput)
)

// Lookup errors
var (
	ErrUserNotFound     = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrOperatorNotFound = fmt.Errorf("%w: operator not found under supervision", ErrNotFound)
	ErrStatusNotFound   = fmt.Errorf("%w: status record not found", ErrNotFound)
)

// Upstream wraps a store failure so callers can match ErrUpstream while the
// original error stays reachable for logging.
func Upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}
