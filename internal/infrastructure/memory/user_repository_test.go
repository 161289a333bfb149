package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-service/internal/domain/repository"
)

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	a, err := repo.Create(ctx, repository.CreateUserData{Name: "A", Email: "a@x.com", PasswordHash: "h1"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, repository.CreateUserData{Name: "B", Email: "b@x.com", PasswordHash: "h2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	_, err = repo.Create(ctx, repository.CreateUserData{Name: "C", Email: "a@x.com", PasswordHash: "h3"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "most recent first")

	_, err = repo.Update(ctx, a.ID, repository.UpdateUserData{Email: &b.Email})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	name := "A2"
	updated, err := repo.Update(ctx, a.ID, repository.UpdateUserData{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, "h1", updated.Password)
	assert.True(t, updated.UpdatedAt.After(a.UpdatedAt))

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), repository.ErrNotFound)

	c, err := repo.Create(ctx, repository.CreateUserData{Name: "C", Email: "a@x.com", PasswordHash: "h3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID, "ids are never reused")
}
