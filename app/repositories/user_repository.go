package repositories

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/orm"
)

// UserRepository owns the users table.
type UserRepository struct{}

func NewUserRepository() *UserRepository { return &UserRepository{} }

func (r *UserRepository) users() *orm.Query {
	return orm.DB().Model(&models.User{})
}

// FindByEmail loads the account registered under email.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var u models.User
	err := r.users().Where("email = ?", email).First(&u)
	return u, err
}

func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var u models.User
	err := r.users().Where("id = ?", id).First(&u)
	return u, err
}

// EmailTaken reports whether any account already uses email. Signup and
// profile edits both check it before writing.
func (r *UserRepository) EmailTaken(email string) (bool, error) {
	var n int64
	err := r.users().Where("email = ?", email).Count(&n)
	return n > 0, err
}

func (r *UserRepository) Create(u *models.User) error { return orm.DB().Create(u) }

func (r *UserRepository) Update(u *models.User) error { return orm.DB().Save(u) }

// Delete soft-deletes; the row keeps its points ledger and swap history.
func (r *UserRepository) Delete(id uint) error {
	_, err := orm.DB().Delete(&models.User{}, id)
	return err
}

// All pages through every account, for the admin listing and the
// balance reconcile sweep.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var list []models.User
	pg, err := r.users().GetWithPagination(&list, page, limit)
	return list, pg, err
}
