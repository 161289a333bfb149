package application

import "context"

// PasswordHasher produces the one-way hash stored in place of a password.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UserIndex keeps a searchable copy of public user data.
type UserIndex interface {
	Index(ctx context.Context, u UserResponse) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]UserResponse, error)
}

// UserNotifier is told about newly registered users (welcome email).
type UserNotifier interface {
	UserCreated(ctx context.Context, u UserResponse) error
}

type nopIndex struct{}

func (nopIndex) Index(context.Context, UserResponse) error { return nil }
func (nopIndex) Remove(context.Context, int64) error       { return nil }
func (nopIndex) Search(context.Context, string, int) ([]UserResponse, error) {
	return []UserResponse{}, nil
}

type nopNotifier struct{}

func (nopNotifier) UserCreated(context.Context, UserResponse) error { return nil }
