package application

import (
	"time"

	"github.com/oksasatya/go-user-service/internal/domain/entity"
)

const (
	MsgUserNotFound = "User not found"
	msgEmailInUse   = "Email already in use"
)

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput is a partial update; nil fields are not changed.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserResponse is the public projection of a user. It has no credential field.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
