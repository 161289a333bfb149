package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	repo "github.com/oksasatya/go-user-service/internal/domain/repository"
)

type DeleteUser struct {
	repo    repo.UserRepository
	effects sideEffects
}

func (uc *DeleteUser) Execute(ctx context.Context, id int64) error {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound(MsgUserNotFound)
		}
		return apperror.Internal(fmt.Errorf("find user: %w", err))
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound(MsgUserNotFound)
		}
		return apperror.Internal(err)
	}
	uc.effects.removed(ctx, id)
	return nil
}
