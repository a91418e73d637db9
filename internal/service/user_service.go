// Package service provides business logic for the user service.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Adarsh-2019/user-service/internal/domain"
	"github.com/Adarsh-2019/user-service/internal/repository"
)

// DefaultPageSize is the page size used when the caller doesn't specify one.
const DefaultPageSize = 20

// PasswordHasher abstracts the one-way password transformation.
type PasswordHasher interface {
	// Hash returns an opaque hash of plaintext, safe to persist.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext produced hashedValue.
	Verify(plaintext, hashedValue string) bool
}

// TokenIssuer mints bearer tokens for authenticated principals.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// UserService orchestrates credential hashing, token issuance and the user
// store. Registration and authentication are the only paths that ever see a
// plaintext password, and both discard it after hashing or verification.
type UserService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// CreateUserInput contains the data needed to create a new user.
// ID and timestamps are structurally absent: they are always assigned by
// the server, never by the caller.
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create registers a new user account. The password is hashed before
// anything is persisted; a duplicate email surfaces as
// domain.ErrDuplicateEmail from the store's uniqueness constraint at commit
// time, which also resolves concurrent registrations racing on one email.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := s.validateCreateInput(input); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("create user: %w", err)
	}

	user := domain.NewUser(input.Username, input.Email, passwordHash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user created")

	return user, nil
}

// Authenticate verifies credentials by email and returns a bearer token
// bound to the account's username. The failure is deliberately uniform:
// unknown email, wrong password and inactive account all surface as
// domain.ErrInvalidCredentials so the response never reveals which half
// failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Str("email", email).Msg("unknown email during authentication")
			return "", domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("failed to look up user during authentication")
		return "", fmt.Errorf("authenticate: %w", err)
	}

	if !user.Active {
		s.logger.Debug().Int64("user_id", user.ID).Msg("inactive user attempted authentication")
		return "", domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Debug().Int64("user_id", user.ID).Msg("invalid password during authentication")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return "", fmt.Errorf("authenticate: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user authenticated")

	return token, nil
}

// GetByID retrieves a user by ID.
// Returns domain.ErrUserNotFound when absent.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email. Unlike GetByID this is permissive:
// an unmatched email returns (nil, nil) rather than an error. The asymmetry
// is a documented contract; callers depend on both behaviors.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		s.logger.Error().Err(err).Msg("failed to get user by email")
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ListUsersInput contains pagination options for listing users.
// Page and Size fall back to 0 and 20; no upper bound on Size is enforced.
type ListUsersInput struct {
	Page int
	Size int
}

// ListUsersOutput contains one page of users plus total-count metadata.
type ListUsersOutput struct {
	Users []*domain.User
	Total int64
	Page  int
	Size  int
}

// List returns a page of users in insertion order.
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*ListUsersOutput, error) {
	if input.Page < 0 {
		input.Page = 0
	}
	if input.Size <= 0 {
		input.Size = DefaultPageSize
	}

	result, err := s.userRepo.List(ctx, repository.ListOptions{
		Limit:  input.Size,
		Offset: input.Page * input.Size,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ListUsersOutput{
		Users: result.Items,
		Total: result.Total,
		Page:  input.Page,
		Size:  input.Size,
	}, nil
}

// UpdateUserInput is the update patch. Username, Email and Active always
// overwrite the stored values; Password re-selects the hash only when
// non-blank, blank means "keep existing hash". There is no CreatedAt field:
// creation time is immutable and never accepted from callers.
type UpdateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Active   bool   `json:"active"`
}

// Update applies a patch to an existing user. Concurrent updates to the
// same record are last-write-wins at the field level.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to load user for update")
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.Username = input.Username
	user.Email = input.Email
	user.Active = input.Active

	if input.Password != "" {
		newHash, err := s.hasher.Hash(input.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.PasswordHash = newHash
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update user")
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user updated")
	return user, nil
}

// Delete removes a user permanently. Deleting an absent ID fails with
// domain.ErrUserNotFound, including repeat deletes of the same ID.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// ExistsByID is a pure existence probe with no side effects.
func (s *UserService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := s.userRepo.ExistsByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to check user existence")
		return false, fmt.Errorf("exists by id: %w", err)
	}
	return exists, nil
}

// validateCreateInput validates the input for creating a user.
func (s *UserService) validateCreateInput(input CreateUserInput) error {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return err
	}
	if input.Password == "" {
		return domain.ErrPasswordRequired
	}
	return nil
}
