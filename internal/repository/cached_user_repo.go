package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Adarsh-2019/user-service/internal/domain"
)

// cachedUserRepository decorates a UserRepository with a read-through cache
// keyed by user ID and email. Mutations invalidate both keys; cache failures
// degrade to the underlying store rather than failing the request.
type cachedUserRepository struct {
	inner  UserRepository
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedUserRepository wraps repo with a read-through cache.
func NewCachedUserRepository(repo UserRepository, cache Cache, ttl time.Duration, logger zerolog.Logger) UserRepository {
	return &cachedUserRepository{
		inner:  repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "user_cache").Logger(),
	}
}

func userIDKey(id int64) string {
	return fmt.Sprintf("user:id:%d", id)
}

func userEmailKey(email string) string {
	return "user:email:" + email
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if user, ok := r.lookup(ctx, userIDKey(id)); ok {
		return user, nil
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, userIDKey(id), user)
	return user, nil
}

func (r *cachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if user, ok := r.lookup(ctx, userEmailKey(email)); ok {
		return user, nil
	}

	user, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	r.store(ctx, userEmailKey(email), user)
	return user, nil
}

func (r *cachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	// Invalidate before and after the write: the pre-read may have cached
	// the old email key.
	prev, err := r.inner.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}

	r.invalidate(ctx, userIDKey(user.ID), userEmailKey(prev.Email), userEmailKey(user.Email))
	return nil
}

func (r *cachedUserRepository) Delete(ctx context.Context, id int64) error {
	prev, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, userIDKey(id), userEmailKey(prev.Email))
	return nil
}

func (r *cachedUserRepository) List(ctx context.Context, opts ListOptions) (*ListResult[domain.User], error) {
	// Listings are not cached: the page/total pair goes stale on every
	// mutation and the query is cheap.
	return r.inner.List(ctx, opts)
}

func (r *cachedUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if ok, err := r.cache.Exists(ctx, userIDKey(id)); err == nil && ok {
		return true, nil
	}
	return r.inner.ExistsByID(ctx, id)
}

func (r *cachedUserRepository) lookup(ctx context.Context, key string) (*domain.User, bool) {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var rec cacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		_ = r.cache.Delete(ctx, key)
		return nil, false
	}

	var user domain.User
	rec.unmarshalInto(&user)
	return &user, true
}

func (r *cachedUserRepository) store(ctx context.Context, key string, user *domain.User) {
	data, err := json.Marshal(cacheRecord(*user))
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (r *cachedUserRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Debug().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// cacheRecord mirrors domain.User but serializes the password hash, which
// the domain type hides from JSON. Cached entries must round-trip the full
// record or authentication against a cached user would always fail.
type cacheRecord struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *cacheRecord) unmarshalInto(u *domain.User) {
	u.ID = c.ID
	u.Username = c.Username
	u.Email = c.Email
	u.PasswordHash = c.PasswordHash
	u.Active = c.Active
	u.CreatedAt = c.CreatedAt
	u.UpdatedAt = c.UpdatedAt
}

var _ UserRepository = (*cachedUserRepository)(nil)
