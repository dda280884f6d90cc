package repositories

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/orm"
)

// RedemptionRepository handles database operations for Redemption.
type RedemptionRepository struct{}

func NewRedemptionRepository() *RedemptionRepository {
	return &RedemptionRepository{}
}

// FindByID loads a redemption with its item.
func (r *RedemptionRepository) FindByID(id uint) (models.Redemption, error) {
	var red models.Redemption
	err := orm.DB().Model(&models.Redemption{}).
		Preload("Item").
		Where("id = ?", id).
		First(&red)
	return red, err
}

// ForUser returns a user's redemptions, newest first.
func (r *RedemptionRepository) ForUser(userID uint, page, limit int) ([]models.Redemption, orm.Pagination, error) {
	var reds []models.Redemption
	pagination, err := orm.DB().Model(&models.Redemption{}).
		Where("user_id = ?", userID).
		Preload("Item").
		Order("created_at DESC").
		GetWithPagination(&reds, page, limit)
	return reds, pagination, err
}

// All returns every redemption (admin view), newest first.
func (r *RedemptionRepository) All(page, limit int) ([]models.Redemption, orm.Pagination, error) {
	var reds []models.Redemption
	pagination, err := orm.DB().Model(&models.Redemption{}).
		Preload("Item").
		Order("created_at DESC").
		GetWithPagination(&reds, page, limit)
	return reds, pagination, err
}
