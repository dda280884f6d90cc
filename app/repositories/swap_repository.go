package repositories

import (
	"gorm.io/gorm"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/orm"
)

// SwapRepository handles database operations for Swap.
type SwapRepository struct{}

func NewSwapRepository() *SwapRepository {
	return &SwapRepository{}
}

// withDeleted preloads an item association even after the item was
// soft-deleted. Historical swaps keep their participants, so the former
// owner's visibility survives the item's removal.
func withDeleted(db *gorm.DB) *gorm.DB { return db.Unscoped() }

// FindByID loads a swap with the items involved.
func (r *SwapRepository) FindByID(id uint) (models.Swap, error) {
	var swap models.Swap
	err := orm.DB().Model(&models.Swap{}).
		Preload("RequestedItem", withDeleted).
		Preload("OfferedItem", withDeleted).
		Where("id = ?", id).
		First(&swap)
	return swap, err
}

// ForUser returns swaps the user participates in: requested by them, or
// targeting an item they own. The join keeps each swap once.
func (r *SwapRepository) ForUser(userID uint, page, limit int) ([]models.Swap, orm.Pagination, error) {
	var swaps []models.Swap
	pagination, err := orm.DB().Model(&models.Swap{}).
		Joins("JOIN items ON items.id = swaps.requested_item_id").
		Where("swaps.requester_id = ? OR items.owner_id = ?", userID, userID).
		Preload("RequestedItem", withDeleted).
		Preload("OfferedItem", withDeleted).
		Order("swaps.created_at DESC").
		GetWithPagination(&swaps, page, limit)
	return swaps, pagination, err
}

// Create persists a new swap.
func (r *SwapRepository) Create(swap *models.Swap) error {
	return orm.DB().Create(swap)
}
