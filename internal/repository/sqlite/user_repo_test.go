package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Adarsh-2019/user-service/internal/domain"
	"github.com/Adarsh-2019/user-service/internal/repository"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	ctx := context.Background()
	db, err := NewDB(ctx, DefaultConfig(":memory:"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(ctx))

	return NewUserRepository(db)
}

func newTestUser(username, email string) *domain.User {
	return domain.NewUser(username, email, "$2a$04$fakehashforrepositorytests")
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newTestUser("johndoe", "john@example.com")
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.Equal(t, "johndoe", got.Username)
		require.Equal(t, "john@example.com", got.Email)
		require.Equal(t, user.PasswordHash, got.PasswordHash)
		require.True(t, got.Active)
		require.True(t, got.CreatedAt.Equal(user.CreatedAt))
	})

	t.Run("by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "john@example.com")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("absent email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("johndoe", "john@example.com")))

	err := repo.Create(ctx, newTestUser("other", "john@example.com"))
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserRepository_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newTestUser("johndoe", "john@example.com")
	require.NoError(t, repo.Create(ctx, user))
	createdAt := user.CreatedAt

	user.Username = "johnny"
	user.Email = "johnny@example.com"
	user.Active = false
	user.UpdatedAt = time.Now().UTC().Add(time.Minute)
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "johnny", got.Username)
	require.Equal(t, "johnny@example.com", got.Email)
	require.False(t, got.Active)

	// created_at is never part of the UPDATE statement.
	require.True(t, got.CreatedAt.Equal(createdAt))
	require.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	ghost := newTestUser("ghost", "ghost@example.com")
	ghost.ID = 9999
	require.ErrorIs(t, repo.Update(context.Background(), ghost), domain.ErrUserNotFound)
}

func TestUserRepository_Update_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("user-one", "one@example.com")))
	second := newTestUser("user-two", "two@example.com")
	require.NoError(t, repo.Create(ctx, second))

	second.Email = "one@example.com"
	require.ErrorIs(t, repo.Update(ctx, second), domain.ErrDuplicateEmail)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newTestUser("johndoe", "john@example.com")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	require.ErrorIs(t, repo.Delete(ctx, user.ID), domain.ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		u := newTestUser(fmt.Sprintf("user-%d", i), fmt.Sprintf("user%d@example.com", i))
		require.NoError(t, repo.Create(ctx, u))
	}

	t.Run("first page", func(t *testing.T) {
		result, err := repo.List(ctx, repository.ListOptions{Limit: 2, Offset: 0})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		require.Equal(t, int64(5), result.Total)
		require.Equal(t, "user-1", result.Items[0].Username)
		require.Equal(t, "user-2", result.Items[1].Username)
	})

	t.Run("last partial page", func(t *testing.T) {
		result, err := repo.List(ctx, repository.ListOptions{Limit: 2, Offset: 4})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		require.Equal(t, "user-5", result.Items[0].Username)
	})

	t.Run("offset past end", func(t *testing.T) {
		result, err := repo.List(ctx, repository.ListOptions{Limit: 2, Offset: 10})
		require.NoError(t, err)
		require.Empty(t, result.Items)
		require.Equal(t, int64(5), result.Total)
	})
}

func TestUserRepository_List_IDOrderSurvivesDeletes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for i := 1; i <= 3; i++ {
		u := newTestUser(fmt.Sprintf("user-%d", i), fmt.Sprintf("user%d@example.com", i))
		require.NoError(t, repo.Create(ctx, u))
		ids = append(ids, u.ID)
	}

	require.NoError(t, repo.Delete(ctx, ids[1]))

	later := newTestUser("user-4", "user4@example.com")
	require.NoError(t, repo.Create(ctx, later))

	result, err := repo.List(ctx, repository.ListOptions{Limit: 10, Offset: 0})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	require.Equal(t, "user-1", result.Items[0].Username)
	require.Equal(t, "user-3", result.Items[1].Username)
	require.Equal(t, "user-4", result.Items[2].Username)
}

func TestUserRepository_ExistsByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := newTestUser("johndoe", "john@example.com")
	require.NoError(t, repo.Create(ctx, user))

	exists, err := repo.ExistsByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByID(ctx, 9999)
	require.NoError(t, err)
	require.False(t, exists)
}
