// Package domain contains the core business entities for the user service.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates another user already holds the email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials indicates authentication failed. It is
	// deliberately uniform: callers cannot tell an unknown email from a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid indicates the token signature did not verify or the
	// token is malformed.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired indicates the token is past its encoded expiry.
	ErrTokenExpired = errors.New("token expired")

	// Validation errors are local to the service layer and never reach
	// the store.

	// ErrInvalidUsername indicates the username length constraint failed.
	ErrInvalidUsername = errors.New("invalid username: must be 3-50 characters")

	// ErrInvalidEmail indicates the email is empty or not valid syntax.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrPasswordRequired indicates a blank password on registration.
	ErrPasswordRequired = errors.New("password is required")
)

// IsValidation reports whether err is one of the input validation errors.
// Used by transport layers to map failures to 400 responses.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidUsername) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrPasswordRequired)
}
