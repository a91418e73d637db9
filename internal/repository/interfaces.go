// Package repository defines data access interfaces for the user service.
// These interfaces abstract database operations, allowing for different
// implementations (PostgreSQL, SQLite, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/Adarsh-2019/user-service/internal/domain"
)

// UserRepository defines the interface for user data access.
//
// The store owns the uniqueness constraint on email: Create and Update
// return domain.ErrDuplicateEmail when the constraint is violated at commit
// time. Concurrent registrations racing on the same email are resolved here,
// not by pre-checks in the service.
type UserRepository interface {
	// Create inserts a new user and assigns its ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns domain.ErrUserNotFound when absent.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	// Returns domain.ErrUserNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists changes to an existing user. CreatedAt is never
	// written by this method.
	Update(ctx context.Context, user *domain.User) error

	// Delete deletes a user by ID.
	// Returns domain.ErrUserNotFound when absent.
	Delete(ctx context.Context, id int64) error

	// List returns users in insertion order with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.User], error)

	// ExistsByID checks if a user with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// DatabaseHealth is an interface for database health checks.
// Satisfied by both the SQLite and PostgreSQL connection wrappers.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}

// ListOptions contains common pagination options.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int
}

// ListResult is a generic paginated list result.
type ListResult[T any] struct {
	// Items is the list of items.
	Items []*T

	// Total is the total number of items (without pagination).
	Total int64

	// Offset is the current offset.
	Offset int

	// Limit is the current limit.
	Limit int
}
