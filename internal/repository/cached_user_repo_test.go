package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Adarsh-2019/user-service/internal/domain"
)

// fakeCache is a map-backed Cache that ignores TTLs.
type fakeCache struct {
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.items[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.items[key]
	return ok, nil
}

var _ Cache = (*fakeCache)(nil)

// countingRepo wraps a map-backed store and counts reads that reach it.
type countingRepo struct {
	users        map[int64]*domain.User
	nextID       int64
	idLookups    int
	emailLookups int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *countingRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *countingRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.idLookups++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *countingRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.emailLookups++
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *countingRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *countingRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *countingRepo) List(ctx context.Context, opts ListOptions) (*ListResult[domain.User], error) {
	var users []*domain.User
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			copied := *u
			users = append(users, &copied)
		}
	}
	return &ListResult[domain.User]{Items: users, Total: int64(len(users)), Offset: opts.Offset, Limit: opts.Limit}, nil
}

func (r *countingRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

var _ UserRepository = (*countingRepo)(nil)

func newCachedRepo(t *testing.T) (UserRepository, *countingRepo, *fakeCache) {
	t.Helper()
	inner := newCountingRepo()
	cache := newFakeCache()
	cached := NewCachedUserRepository(inner, cache, 5*time.Minute, zerolog.Nop())
	return cached, inner, cache
}

func seedUser(t *testing.T, repo UserRepository, username, email string) *domain.User {
	t.Helper()
	user := domain.NewUser(username, email, "$2a$04$cachedrepotesthash")
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestCachedRepo_GetByID_ReadThrough(t *testing.T) {
	cached, inner, _ := newCachedRepo(t)
	ctx := context.Background()
	user := seedUser(t, cached, "johndoe", "john@example.com")

	first, err := cached.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, inner.idLookups)

	second, err := cached.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, inner.idLookups, "second read must be served from cache")

	require.Equal(t, first.Email, second.Email)
	require.Equal(t, first.PasswordHash, second.PasswordHash, "hash must survive cache round-trip")
}

func TestCachedRepo_GetByEmail_ReadThrough(t *testing.T) {
	cached, inner, _ := newCachedRepo(t)
	ctx := context.Background()
	seedUser(t, cached, "johndoe", "john@example.com")

	_, err := cached.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, inner.emailLookups)

	got, err := cached.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, inner.emailLookups)
	require.Equal(t, "johndoe", got.Username)
}

func TestCachedRepo_MissesAreNotCached(t *testing.T) {
	cached, inner, _ := newCachedRepo(t)
	ctx := context.Background()

	_, err := cached.GetByID(ctx, 99)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = cached.GetByID(ctx, 99)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.Equal(t, 2, inner.idLookups)
}

func TestCachedRepo_UpdateInvalidates(t *testing.T) {
	cached, _, _ := newCachedRepo(t)
	ctx := context.Background()
	user := seedUser(t, cached, "johndoe", "john@example.com")

	// Warm both keys.
	_, err := cached.GetByID(ctx, user.ID)
	require.NoError(t, err)
	_, err = cached.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)

	user.Email = "johnny@example.com"
	user.Username = "johnny"
	require.NoError(t, cached.Update(ctx, user))

	got, err := cached.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "johnny", got.Username)
	require.Equal(t, "johnny@example.com", got.Email)

	// The old email key is gone too, so the store decides.
	_, err = cached.GetByEmail(ctx, "john@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCachedRepo_DeleteInvalidates(t *testing.T) {
	cached, _, cache := newCachedRepo(t)
	ctx := context.Background()
	user := seedUser(t, cached, "johndoe", "john@example.com")

	_, err := cached.GetByID(ctx, user.ID)
	require.NoError(t, err)
	_, err = cached.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)

	require.NoError(t, cached.Delete(ctx, user.ID))
	require.Empty(t, cache.items)

	_, err = cached.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = cached.GetByEmail(ctx, "john@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCachedRepo_UndecodableEntryDropped(t *testing.T) {
	cached, inner, cache := newCachedRepo(t)
	ctx := context.Background()
	user := seedUser(t, cached, "johndoe", "john@example.com")

	cache.items[userIDKey(user.ID)] = []byte("{corrupt")

	got, err := cached.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "johndoe", got.Username)
	require.Equal(t, 1, inner.idLookups, "corrupt entry falls through to the store")
}

func TestCachedRepo_ExistsByID(t *testing.T) {
	cached, inner, _ := newCachedRepo(t)
	ctx := context.Background()
	user := seedUser(t, cached, "johndoe", "john@example.com")

	// Warm the id key so the probe is answered from the cache.
	_, err := cached.GetByID(ctx, user.ID)
	require.NoError(t, err)

	exists, err := cached.ExistsByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, 1, inner.idLookups)

	exists, err = cached.ExistsByID(ctx, 99)
	require.NoError(t, err)
	require.False(t, exists)
}
