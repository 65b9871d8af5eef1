package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering with an email that belongs to another user
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when email/password authentication fails
	// Deliberately the same for unknown email and wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InvalidFieldError is returned when a registration field fails validation
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError checks if error is a registration validation error
func IsValidationError(err error) bool {
	var fieldErr *InvalidFieldError
	return errors.As(err, &fieldErr)
}

// IsNotFound checks if error is a user not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsConflict checks if error is a uniqueness conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}
