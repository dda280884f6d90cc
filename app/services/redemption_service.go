package services

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/event"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/metrics"
	"github.com/rewearhq/rewear/pkg/orm"
)

type RedemptionService struct {
	redemptions *repositories.RedemptionRepository
	items       *repositories.ItemRepository
	users       *repositories.UserRepository
}

func NewRedemptionService() *RedemptionService {
	return &RedemptionService{
		redemptions: repositories.NewRedemptionRepository(),
		items:       repositories.NewItemRepository(),
		users:       repositories.NewUserRepository(),
	}
}

// List returns the caller's redemptions. Admins may pass all=true to see
// every user's claims.
func (s *RedemptionService) List(actor Actor, all bool, page, limit int) ([]models.Redemption, orm.Pagination, error) {
	if all && actor.Admin() {
		return s.redemptions.All(page, limit)
	}
	return s.redemptions.ForUser(actor.ID, page, limit)
}

// Get returns one redemption, visible to the redeemer and admins.
func (s *RedemptionService) Get(actor Actor, id uint) (models.Redemption, error) {
	red, err := s.redemptions.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Redemption{}, ErrNotFound
		}
		return models.Redemption{}, err
	}
	if red.UserID != actor.ID && !actor.Admin() {
		return models.Redemption{}, ErrNotFound
	}
	return red, nil
}

type RedeemInput struct {
	ItemID uint `json:"item_id" validate:"required"`
}

// Redeem claims an item with points. The redeemer is debited the item's point
// cost and the item is parked in pending_redemption, both in one transaction;
// a balance below the cost rejects the claim outright.
func (s *RedemptionService) Redeem(actor Actor, in RedeemInput) (models.Redemption, error) {
	item, err := s.items.FindByID(in.ItemID)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Redemption{}, ErrNotFound
		}
		return models.Redemption{}, err
	}
	if err := canViewItem(actor, &item); err != nil {
		return models.Redemption{}, err
	}
	if item.OwnerID == actor.ID {
		return models.Redemption{}, ErrConflict
	}
	if !item.IsApproved || item.Status != models.ItemStatusAvailable {
		return models.Redemption{}, ErrConflict
	}

	user, err := s.users.FindByID(actor.ID)
	if err != nil {
		return models.Redemption{}, err
	}
	if user.PointsBalance < item.PointCost {
		return models.Redemption{}, ErrInsufficientBalance
	}

	red := models.Redemption{
		UserID: actor.ID,
		ItemID: item.ID,
		Status: models.RedemptionStatusPending,
	}

	err = orm.Transaction(func(tx *orm.Query) error {
		rows, err := tx.Model(&models.Item{}).
			Where("id = ? AND status = ? AND is_approved = ?",
				item.ID, models.ItemStatusAvailable, true).
			Update("status", models.ItemStatusPendingRedemption)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConflict
		}

		ref := item.ID
		debit := models.PointsTransaction{
			UserID:          actor.ID,
			ChangeAmount:    -item.PointCost,
			TransactionType: models.TxRedeemItem,
			ReferenceID:     &ref,
		}
		if err := ApplyInTx(tx, &debit); err != nil {
			return err
		}

		return tx.Create(&red)
	})
	if err != nil {
		return models.Redemption{}, err
	}

	// Fire the preloaded row, not the bare insert: the listener needs the
	// Item association to notify the item's owner.
	full, err := s.redemptions.FindByID(red.ID)
	if err != nil {
		return models.Redemption{}, err
	}
	event.FireAsync("redemption.requested", full)
	logger.Info("redemption: requested",
		"redemption_id", red.ID, "user_id", actor.ID, "item_id", item.ID)
	return full, nil
}

// Approve finalizes a pending redemption (admin only): the item owner is
// credited the point cost and the item is marked redeemed. The guarded status
// update makes a retried approve a no-op.
func (s *RedemptionService) Approve(actor Actor, id uint) (models.Redemption, error) {
	return s.decide(actor, id, models.RedemptionStatusApproved)
}

// Reject declines a pending redemption (admin only): the redeemer is refunded
// and the item returns to the catalog.
func (s *RedemptionService) Reject(actor Actor, id uint) (models.Redemption, error) {
	return s.decide(actor, id, models.RedemptionStatusRejected)
}

func (s *RedemptionService) decide(actor Actor, id uint, status string) (models.Redemption, error) {
	if !actor.Admin() {
		return models.Redemption{}, ErrForbidden
	}

	red, err := s.redemptions.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Redemption{}, ErrNotFound
		}
		return models.Redemption{}, err
	}
	if red.Item == nil {
		return models.Redemption{}, ErrNotFound
	}

	err = orm.Transaction(func(tx *orm.Query) error {
		rows, err := tx.Model(&models.Redemption{}).
			Where("id = ? AND status = ?", red.ID, models.RedemptionStatusPending).
			Update("status", status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidTransition
		}

		ref := red.ID
		if status == models.RedemptionStatusApproved {
			if _, err := tx.Model(&models.Item{}).
				Where("id = ?", red.ItemID).
				Update("status", models.ItemStatusRedeemed); err != nil {
				return err
			}
			credit := models.PointsTransaction{
				UserID:          red.Item.OwnerID,
				ChangeAmount:    red.Item.PointCost,
				TransactionType: models.TxEarnRedemption,
				ReferenceID:     &ref,
			}
			return ApplyInTx(tx, &credit)
		}

		// Rejected: refund the redeemer and put the item back on the shelf.
		if _, err := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", red.ItemID, models.ItemStatusPendingRedemption).
			Update("status", models.ItemStatusAvailable); err != nil {
			return err
		}
		refund := models.PointsTransaction{
			UserID:          red.UserID,
			ChangeAmount:    red.Item.PointCost,
			TransactionType: models.TxRefund,
			ReferenceID:     &ref,
		}
		return ApplyInTx(tx, &refund)
	})
	if err != nil {
		return models.Redemption{}, err
	}

	metrics.RedemptionsTotal.WithLabelValues(status).Inc()
	event.FireAsync("redemption."+status, red)
	logger.Info("redemption: decided",
		"redemption_id", red.ID, "status", status, "admin_id", actor.ID)
	return s.redemptions.FindByID(red.ID)
}
