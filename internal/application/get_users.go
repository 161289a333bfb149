package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	repo "github.com/oksasatya/go-user-service/internal/domain/repository"
)

type GetAllUsers struct {
	repo repo.UserRepository
}

func (uc *GetAllUsers) Execute(ctx context.Context) ([]UserResponse, error) {
	users, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find users: %w", err))
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out, nil
}

type GetUserByID struct {
	repo repo.UserRepository
}

func (uc *GetUserByID) Execute(ctx context.Context, id int64) (UserResponse, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserResponse{}, apperror.NotFound(MsgUserNotFound)
		}
		return UserResponse{}, apperror.Internal(fmt.Errorf("find user: %w", err))
	}
	return NewUserResponse(u), nil
}

type SearchUsers struct {
	index UserIndex
}

// Execute queries the search index. size is clamped to (0, 50] with 10 as default.
func (uc *SearchUsers) Execute(ctx context.Context, q string, size int) ([]UserResponse, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	out, err := uc.index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("search users: %w", err))
	}
	if out == nil {
		out = []UserResponse{}
	}
	return out, nil
}
