package services

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/orm"
)

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService() *UserService {
	return &UserService{users: repositories.NewUserRepository()}
}

// List returns all accounts, admin only.
func (s *UserService) List(actor Actor, page, limit int) ([]models.User, orm.Pagination, error) {
	if !actor.Admin() {
		return nil, orm.Pagination{}, ErrForbidden
	}
	return s.users.All(page, limit)
}

// Get returns one account, visible to the account owner and admins.
func (s *UserService) Get(actor Actor, id uint) (models.User, error) {
	if err := canManageUser(actor, id); err != nil {
		return models.User{}, err
	}
	user, err := s.users.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

type UpdateUserInput struct {
	FullName  *string `json:"full_name" validate:"nullable,min=2,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"nullable,url"`
}

// Update edits the mutable profile fields. Email, role, and balance are not
// editable through this path.
func (s *UserService) Update(actor Actor, id uint, in UpdateUserInput) (models.User, error) {
	user, err := s.Get(actor, id)
	if err != nil {
		return models.User{}, err
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Delete removes an account, allowed for the owner and admins.
func (s *UserService) Delete(actor Actor, id uint) error {
	user, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	return s.users.Delete(user.ID)
}
