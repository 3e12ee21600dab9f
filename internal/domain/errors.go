package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrAccountUnderfunded = errors.New("account_underfunded")
	ErrOverflow           = errors.New("arithmetic_overflow")
	ErrInvalidSide        = errors.New("invalid_side")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
