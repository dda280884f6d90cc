package services

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
)

type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService() *CategoryService {
	return &CategoryService{categories: repositories.NewCategoryRepository()}
}

// List returns all categories, name order. Public.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categories.All()
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=80"`
}

// Create adds a category (admin only). Duplicate names are rejected.
func (s *CategoryService) Create(actor Actor, in CategoryInput) (models.Category, error) {
	if !actor.Admin() {
		return models.Category{}, ErrForbidden
	}

	taken, err := s.categories.NameTaken(in.Name)
	if err != nil {
		return models.Category{}, err
	}
	if taken {
		return models.Category{}, ErrConflict
	}

	cat := models.Category{Name: in.Name}
	if err := s.categories.Create(&cat); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}
