package repositories

import (
	"time"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/orm"
)

// FeaturedCacheKey is the Redis key holding the featured-items listing.
const FeaturedCacheKey = "items:featured"

// ItemFilter narrows the public item listing.
type ItemFilter struct {
	CategoryID        uint
	Condition         string
	Search            string // LIKE over title + description
	OwnerID           uint
	Status            string
	IncludeUnapproved bool // admin only; callers must enforce
	Page              int
	Limit             int
}

// ItemRepository handles database operations for Item and its children.
type ItemRepository struct{}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

// FindByID loads an item with its images and tags.
func (r *ItemRepository) FindByID(id uint) (models.Item, error) {
	var item models.Item
	err := orm.DB().Model(&models.Item{}).
		Preload("Images").
		Preload("Tags").
		Where("id = ?", id).
		First(&item)
	return item, err
}

// List returns a filtered, paginated item listing.
func (r *ItemRepository) List(f ItemFilter) ([]models.Item, orm.Pagination, error) {
	q := orm.DB().Model(&models.Item{})

	if !f.IncludeUnapproved {
		q = q.Where("is_approved = ?", true)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var items []models.Item
	pagination, err := q.Preload("Images").Preload("Tags").
		Order("created_at DESC").
		GetWithPagination(&items, f.Page, f.Limit)
	return items, pagination, err
}

// Featured returns the newest approved, available items, read through the
// Redis cache with a 5 minute TTL.
func (r *ItemRepository) Featured() ([]models.Item, error) {
	var items []models.Item
	err := orm.DB().Model(&models.Item{}).
		Where("is_approved = ? AND status = ?", true, models.ItemStatusAvailable).
		Order("created_at DESC").
		Limit(10).
		Preload("Images").
		Cache(FeaturedCacheKey, 5*time.Minute, &items)
	return items, err
}

// Create persists a new item.
func (r *ItemRepository) Create(item *models.Item) error {
	return orm.DB().Create(item)
}

// Update persists changes to an existing item.
func (r *ItemRepository) Update(item *models.Item) error {
	return orm.DB().Save(item)
}

// Delete soft-deletes an item.
func (r *ItemRepository) Delete(id uint) error {
	_, err := orm.DB().Delete(&models.Item{}, id)
	return err
}

// NextImageSortOrder returns the sort order for the next image of an item.
func (r *ItemRepository) NextImageSortOrder(itemID uint) (int, error) {
	var n int64
	err := orm.DB().Model(&models.ItemImage{}).Where("item_id = ?", itemID).Count(&n)
	return int(n), err
}

// AddImage appends an image record to an item.
func (r *ItemRepository) AddImage(img *models.ItemImage) error {
	return orm.DB().Create(img)
}
