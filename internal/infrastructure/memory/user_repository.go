package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-user-service/internal/domain/entity"
	"github.com/oksasatya/go-user-service/internal/domain/repository"
)

// UserRepository is an in-process implementation of repository.UserRepository.
// It enforces the same email uniqueness the database constraint does and never reuses ids.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]entity.User
	lastID int64
	now    func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]entity.User), now: time.Now}
}

func (r *UserRepository) emailOwner(email string) (int64, bool) {
	for id, u := range r.users {
		if u.Email == email {
			return id, true
		}
	}
	return 0, false
}

func (r *UserRepository) Create(_ context.Context, data repository.CreateUserData) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.emailOwner(data.Email); taken {
		return nil, repository.ErrEmailTaken
	}
	r.lastID++
	now := r.now()
	u := entity.User{
		ID:        r.lastID,
		Name:      data.Name,
		Email:     data.Email,
		Password:  data.PasswordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) FindAll(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emailOwner(email)
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.users[id]
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, id int64, data repository.UpdateUserData) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if data.Email != nil {
		if owner, taken := r.emailOwner(*data.Email); taken && owner != id {
			return nil, repository.ErrEmailTaken
		}
		u.Email = *data.Email
	}
	if data.Name != nil {
		u.Name = *data.Name
	}
	if data.PasswordHash != nil {
		u.Password = *data.PasswordHash
	}
	u.UpdatedAt = r.now()
	r.users[id] = u
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
