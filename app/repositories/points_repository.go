package repositories

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/orm"
)

// PointsRepository reads the append-only points ledger. All writes go through
// services.PointsService so the balance is co-written in the same transaction.
type PointsRepository struct{}

func NewPointsRepository() *PointsRepository {
	return &PointsRepository{}
}

// ForUser returns a user's ledger, newest first.
func (r *PointsRepository) ForUser(userID uint, page, limit int) ([]models.PointsTransaction, orm.Pagination, error) {
	var txs []models.PointsTransaction
	pagination, err := orm.DB().Model(&models.PointsTransaction{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		GetWithPagination(&txs, page, limit)
	return txs, pagination, err
}

// FindByID loads a single ledger row.
func (r *PointsRepository) FindByID(id uint) (models.PointsTransaction, error) {
	var tx models.PointsTransaction
	err := orm.DB().Model(&models.PointsTransaction{}).Where("id = ?", id).First(&tx)
	return tx, err
}

// SumForUser recomputes a user's balance from the ledger.
func (r *PointsRepository) SumForUser(userID uint) (int, error) {
	var sum struct{ Total int }
	err := orm.DB().Gorm().Model(&models.PointsTransaction{}).
		Select("COALESCE(SUM(change_amount), 0) as total").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	return sum.Total, err
}
