package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	repo "github.com/oksasatya/go-user-service/internal/domain/repository"
)

type UpdateUser struct {
	repo    repo.UserRepository
	hasher  PasswordHasher
	effects sideEffects
}

func (uc *UpdateUser) Execute(ctx context.Context, id int64, in UpdateUserInput) (UserResponse, error) {
	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserResponse{}, apperror.NotFound(MsgUserNotFound)
		}
		return UserResponse{}, apperror.Internal(fmt.Errorf("find user: %w", err))
	}

	// only a changed email needs the uniqueness lookup
	if in.Email != nil && *in.Email != current.Email {
		owner, err := uc.repo.FindByEmail(ctx, *in.Email)
		switch {
		case err == nil && owner != nil:
			return UserResponse{}, apperror.Conflict(msgEmailInUse)
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return UserResponse{}, apperror.Internal(fmt.Errorf("find user by email: %w", err))
		}
	}

	data := repo.UpdateUserData{Name: in.Name, Email: in.Email}
	if in.Password != nil {
		hash, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return UserResponse{}, apperror.Internal(fmt.Errorf("hash password: %w", err))
		}
		data.PasswordHash = &hash
	}
	if data.IsEmpty() {
		return NewUserResponse(current), nil
	}

	u, err := uc.repo.Update(ctx, id, data)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return UserResponse{}, apperror.NotFound(MsgUserNotFound)
		case errors.Is(err, repo.ErrEmailTaken):
			return UserResponse{}, apperror.Conflict(msgEmailInUse)
		}
		return UserResponse{}, apperror.Internal(err)
	}

	res := NewUserResponse(u)
	uc.effects.indexed(ctx, res)
	return res, nil
}
