package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	repo "github.com/oksasatya/go-user-service/internal/domain/repository"
)

type CreateUser struct {
	repo    repo.UserRepository
	hasher  PasswordHasher
	effects sideEffects
}

// Execute registers a new user. The email lookup is a fast path; the storage
// unique constraint is what finally rejects a duplicate.
func (uc *CreateUser) Execute(ctx context.Context, in CreateUserInput) (UserResponse, error) {
	existing, err := uc.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return UserResponse{}, apperror.Conflict(msgEmailInUse)
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return UserResponse{}, apperror.Internal(fmt.Errorf("find user by email: %w", err))
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return UserResponse{}, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	u, err := uc.repo.Create(ctx, repo.CreateUserData{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return UserResponse{}, apperror.Conflict(msgEmailInUse)
		}
		return UserResponse{}, apperror.Internal(err)
	}

	res := NewUserResponse(u)
	uc.effects.created(ctx, res)
	return res, nil
}
