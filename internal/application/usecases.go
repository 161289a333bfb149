package application

import (
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-user-service/internal/domain/repository"
)

// Deps are the collaborators shared by the user use cases.
// Index and Notifier are optional.
type Deps struct {
	Repo     repo.UserRepository
	Hasher   PasswordHasher
	Index    UserIndex
	Notifier UserNotifier
	Logger   *logrus.Logger
}

type UseCases struct {
	Create  *CreateUser
	GetAll  *GetAllUsers
	GetByID *GetUserByID
	Update  *UpdateUser
	Delete  *DeleteUser
	Search  *SearchUsers
}

func NewUseCases(d Deps) *UseCases {
	if d.Index == nil {
		d.Index = nopIndex{}
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	effects := sideEffects{index: d.Index, notifier: d.Notifier, logger: d.Logger}

	return &UseCases{
		Create:  &CreateUser{repo: d.Repo, hasher: d.Hasher, effects: effects},
		GetAll:  &GetAllUsers{repo: d.Repo},
		GetByID: &GetUserByID{repo: d.Repo},
		Update:  &UpdateUser{repo: d.Repo, hasher: d.Hasher, effects: effects},
		Delete:  &DeleteUser{repo: d.Repo, effects: effects},
		Search:  &SearchUsers{index: d.Index},
	}
}
