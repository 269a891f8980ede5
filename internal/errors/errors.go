package errors

import (
	"errors"
	"fmt"
)

// Common error types for the booking front-end
var (
	// Session errors
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionNotFound = errors.New("session not found")

	// Wizard errors
	ErrDraftNotFound      = errors.New("booking draft not found")
	ErrDraftIncomplete    = errors.New("booking draft incomplete")
	ErrInvalidTicketCount = errors.New("invalid ticket count")
	ErrBookingRejected    = errors.New("booking rejected")

	// Backend errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrBackend      = errors.New("backend error")

	// General errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrInternal       = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
