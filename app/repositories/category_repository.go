package repositories

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/orm"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// All returns every category, alphabetical.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var cats []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name ASC").Get(&cats)
	return cats, err
}

// FindByID looks up a category by primary key.
func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var cat models.Category
	err := orm.DB().Model(&models.Category{}).Where("id = ?", id).First(&cat)
	return cat, err
}

// NameTaken reports whether a category with the name already exists.
func (r *CategoryRepository) NameTaken(name string) (bool, error) {
	var n int64
	err := orm.DB().Model(&models.Category{}).Where("name = ?", name).Count(&n)
	return n > 0, err
}

// Create persists a new category.
func (r *CategoryRepository) Create(cat *models.Category) error {
	return orm.DB().Create(cat)
}
