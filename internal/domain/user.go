// Package domain contains the core business entities for the user service.
// These are pure Go structs with no external dependencies.
package domain

import (
	"net/mail"
	"time"
)

// Username length constraints.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	// It is never client-supplied and never changes once set.
	ID int64 `json:"id"`

	// Username is the display name. Constraints: 3-50 characters.
	Username string `json:"username"`

	// Email is the unique email address. Exactly one record may hold a
	// given email at any time; the store enforces this.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This is never exposed in API responses.
	PasswordHash string `json:"-"`

	// Active indicates whether the account is active.
	Active bool `json:"active"`

	// CreatedAt is set once at creation and is immutable thereafter.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every successful mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with default values. The password must already
// be hashed; plaintext never reaches the domain layer.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ValidateUsername checks the username length constraint.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLen || len(username) > UsernameMaxLen {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateEmail checks that the email is syntactically valid.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
