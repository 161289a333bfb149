package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the storage unique constraint on email rejects a write.
	ErrEmailTaken = errors.New("email already in use")
)

type CreateUserData struct {
	Name         string
	Email        string
	PasswordHash string
}

// UpdateUserData carries a partial update. A nil field is left untouched.
type UpdateUserData struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether no field is present.
func (d UpdateUserData) IsEmpty() bool {
	return d.Name == nil && d.Email == nil && d.PasswordHash == nil
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, data CreateUserData) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id int64, data UpdateUserData) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}
