package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-service/internal/domain/repository"
)

var cols = []string{"id", "name", "email", "password", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewUserRepository(mock), mock
}

func strPtr(s string) *string { return &s }

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(name, email, password\)`).
		WithArgs("alice", "alice@example.com", "hash").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(7), "alice", "alice@example.com", "hash", now, now))

	u, err := repo.Create(context.Background(), repository.CreateUserData{
		Name: "alice", Email: "alice@example.com", PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, now, u.CreatedAt)
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), repository.CreateUserData{
		Name: "alice", Email: "alice@example.com", PasswordHash: "hash",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(boom)

	_, err := repo.Create(context.Background(), repository.CreateUserData{Name: "a", Email: "a@x.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, repository.ErrEmailTaken)
}

func TestFindAll_OrderedAndEmpty(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(2), "b", "b@x.com", "h2", now, now).
			AddRow(int64(1), "a", "a@x.com", "h1", now.Add(-time.Hour), now.Add(-time.Hour)))

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[0].ID)
	assert.Equal(t, int64(1), users[1].ID)

	mock.ExpectQuery(`FROM users`).WillReturnRows(pgxmock.NewRows(cols))

	users, err = repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs(int64(99)).WillReturnRows(pgxmock.NewRows(cols))

	u, err := repo.FindByID(context.Background(), 99)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("a@x.com").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(1), "a", "a@x.com", "h", now, now))

	u, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}

func TestUpdate_OnlyPresentFields(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := regexp.QuoteMeta("UPDATE users SET name = $1, updated_at = now() WHERE id = $2 RETURNING " + userColumns)
	mock.ExpectQuery(q).WithArgs("bob", int64(3)).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(3), "bob", "a@x.com", "h", now, now))

	u, err := repo.Update(context.Background(), 3, repository.UpdateUserData{Name: strPtr("bob")})
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Name)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestUpdate_AllFields(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := regexp.QuoteMeta("UPDATE users SET name = $1, email = $2, password = $3, updated_at = now() WHERE id = $4")
	mock.ExpectQuery(q).WithArgs("bob", "b@x.com", "newhash", int64(3)).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(3), "bob", "b@x.com", "newhash", now, now))

	_, err := repo.Update(context.Background(), 3, repository.UpdateUserData{
		Name: strPtr("bob"), Email: strPtr("b@x.com"), PasswordHash: strPtr("newhash"),
	})
	require.NoError(t, err)
}

func TestUpdate_Errors(t *testing.T) {
	t.Run("missing row", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`UPDATE users SET`).WillReturnRows(pgxmock.NewRows(cols))

		_, err := repo.Update(context.Background(), 5, repository.UpdateUserData{Name: strPtr("x")})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
	t.Run("email taken", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`UPDATE users SET`).WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Update(context.Background(), 5, repository.UpdateUserData{Email: strPtr("x@x.com")})
		assert.ErrorIs(t, err, repository.ErrEmailTaken)
	})
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Delete(context.Background(), 1))

	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 2), repository.ErrNotFound)
}
