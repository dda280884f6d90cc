package services

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/event"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/metrics"
	"github.com/rewearhq/rewear/pkg/orm"
)

type SwapService struct {
	swaps *repositories.SwapRepository
	items *repositories.ItemRepository
}

func NewSwapService() *SwapService {
	return &SwapService{
		swaps: repositories.NewSwapRepository(),
		items: repositories.NewItemRepository(),
	}
}

// List returns every swap the caller participates in: requested by them or
// targeting an item they own. Newest first.
func (s *SwapService) List(actor Actor, page, limit int) ([]models.Swap, orm.Pagination, error) {
	return s.swaps.ForUser(actor.ID, page, limit)
}

// Get returns one swap, visible to participants only.
func (s *SwapService) Get(actor Actor, id uint) (models.Swap, error) {
	swap, err := s.swaps.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Swap{}, ErrNotFound
		}
		return models.Swap{}, err
	}
	if err := canViewSwap(actor, &swap, s.ownerOf(&swap)); err != nil {
		return models.Swap{}, err
	}
	return swap, nil
}

type SwapInput struct {
	RequestedItemID uint  `json:"requested_item_id" validate:"required"`
	OfferedItemID   *uint `json:"offered_item_id"`
}

// Request opens a swap on someone else's item. The requested item (and the
// offered item, when present) flip to pending_swap in the same transaction
// that creates the swap, so a second request on the same item loses the race
// instead of creating a dangling swap.
func (s *SwapService) Request(actor Actor, in SwapInput) (models.Swap, error) {
	item, err := s.items.FindByID(in.RequestedItemID)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Swap{}, ErrNotFound
		}
		return models.Swap{}, err
	}
	if err := canViewItem(actor, &item); err != nil {
		return models.Swap{}, err
	}
	if item.OwnerID == actor.ID {
		return models.Swap{}, ErrConflict
	}
	if !item.IsApproved || item.Status != models.ItemStatusAvailable {
		return models.Swap{}, ErrConflict
	}

	swap := models.Swap{
		RequesterID:     actor.ID,
		RequestedItemID: item.ID,
		OfferedItemID:   in.OfferedItemID,
		Status:          models.SwapStatusPending,
	}

	err = orm.Transaction(func(tx *orm.Query) error {
		rows, err := tx.Model(&models.Item{}).
			Where("id = ? AND status = ? AND is_approved = ?",
				item.ID, models.ItemStatusAvailable, true).
			Update("status", models.ItemStatusPendingSwap)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrConflict
		}

		if in.OfferedItemID != nil {
			rows, err := tx.Model(&models.Item{}).
				Where("id = ? AND owner_id = ? AND status = ?",
					*in.OfferedItemID, actor.ID, models.ItemStatusAvailable).
				Update("status", models.ItemStatusPendingSwap)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrConflict
			}
		}

		return tx.Create(&swap)
	})
	if err != nil {
		return models.Swap{}, err
	}

	event.FireAsync("swap.requested", swap)
	logger.Info("swap: requested",
		"swap_id", swap.ID, "requester_id", actor.ID, "item_id", item.ID)
	return s.swaps.FindByID(swap.ID)
}

// Decide moves a pending swap to accepted or rejected. Only the owner of the
// requested item may decide. Rejection releases the locked items.
func (s *SwapService) Decide(actor Actor, id uint, status string) (models.Swap, error) {
	if status != models.SwapStatusAccepted && status != models.SwapStatusRejected {
		return models.Swap{}, ErrInvalidTransition
	}

	swap, err := s.Get(actor, id)
	if err != nil {
		return models.Swap{}, err
	}
	if err := canDecideSwap(actor, s.ownerOf(&swap)); err != nil {
		return models.Swap{}, err
	}

	err = orm.Transaction(func(tx *orm.Query) error {
		rows, err := tx.Model(&models.Swap{}).
			Where("id = ? AND status = ?", swap.ID, models.SwapStatusPending).
			Update("status", status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidTransition
		}
		if status == models.SwapStatusRejected {
			return s.releaseItems(tx, &swap)
		}
		return nil
	})
	if err != nil {
		return models.Swap{}, err
	}

	if status == models.SwapStatusRejected {
		metrics.SwapsTotal.WithLabelValues("rejected").Inc()
	}
	event.FireAsync("swap."+status, swap)
	logger.Info("swap: decided", "swap_id", swap.ID, "status", status, "owner_id", actor.ID)
	return s.swaps.FindByID(swap.ID)
}

// Complete finishes an accepted swap: the items flip to swapped and each
// side's item owner is credited its point value, all in one transaction. The
// guarded status update is the idempotency key: if another complete already
// won, zero rows are affected and the already-completed swap is returned
// without crediting again.
func (s *SwapService) Complete(actor Actor, id uint) (models.Swap, error) {
	swap, err := s.Get(actor, id)
	if err != nil {
		return models.Swap{}, err
	}
	if err := canDecideSwap(actor, s.ownerOf(&swap)); err != nil {
		return models.Swap{}, err
	}

	var alreadyDone bool
	err = orm.Transaction(func(tx *orm.Query) error {
		rows, err := tx.Model(&models.Swap{}).
			Where("id = ? AND status = ?", swap.ID, models.SwapStatusAccepted).
			Update("status", models.SwapStatusCompleted)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost the race or retried: re-read to tell "already completed"
			// apart from a genuinely bad transition.
			current, err := s.swaps.FindByID(swap.ID)
			if err != nil {
				return err
			}
			if current.Status == models.SwapStatusCompleted {
				alreadyDone = true
				return nil
			}
			return ErrInvalidTransition
		}

		if _, err := tx.Model(&models.Item{}).
			Where("id = ?", swap.RequestedItemID).
			Update("status", models.ItemStatusSwapped); err != nil {
			return err
		}

		ref := swap.ID
		if swap.RequestedItem != nil {
			credit := models.PointsTransaction{
				UserID:          swap.RequestedItem.OwnerID,
				ChangeAmount:    swap.RequestedItem.PointCost,
				TransactionType: models.TxEarnSwap,
				ReferenceID:     &ref,
			}
			if err := ApplyInTx(tx, &credit); err != nil {
				return err
			}
		}

		if swap.OfferedItem != nil {
			if _, err := tx.Model(&models.Item{}).
				Where("id = ?", swap.OfferedItem.ID).
				Update("status", models.ItemStatusSwapped); err != nil {
				return err
			}
			credit := models.PointsTransaction{
				UserID:          swap.OfferedItem.OwnerID,
				ChangeAmount:    swap.OfferedItem.PointCost,
				TransactionType: models.TxEarnSwap,
				ReferenceID:     &ref,
			}
			if err := ApplyInTx(tx, &credit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Swap{}, err
	}

	if !alreadyDone {
		metrics.SwapsTotal.WithLabelValues("completed").Inc()
		event.FireAsync("swap.completed", swap)
		logger.Info("swap: completed", "swap_id", swap.ID)
	}
	return s.swaps.FindByID(swap.ID)
}

// Cancel withdraws a pending swap. Only the requester may cancel.
func (s *SwapService) Cancel(actor Actor, id uint) error {
	swap, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if err := canCancelSwap(actor, &swap); err != nil {
		return err
	}

	err = orm.Transaction(func(tx *orm.Query) error {
		rows, err := tx.Model(&models.Swap{}).
			Where("id = ? AND status = ?", swap.ID, models.SwapStatusPending).
			Update("status", models.SwapStatusCancelled)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidTransition
		}
		return s.releaseItems(tx, &swap)
	})
	if err != nil {
		return err
	}

	metrics.SwapsTotal.WithLabelValues("cancelled").Inc()
	event.FireAsync("swap.cancelled", swap)
	logger.Info("swap: cancelled", "swap_id", swap.ID, "requester_id", actor.ID)
	return nil
}

// releaseItems returns the swap's locked items to the open catalog.
func (s *SwapService) releaseItems(tx *orm.Query, swap *models.Swap) error {
	ids := []uint{swap.RequestedItemID}
	if swap.OfferedItemID != nil {
		ids = append(ids, *swap.OfferedItemID)
	}
	_, err := tx.Model(&models.Item{}).
		Where("id IN ? AND status = ?", ids, models.ItemStatusPendingSwap).
		Update("status", models.ItemStatusAvailable)
	return err
}

func (s *SwapService) ownerOf(swap *models.Swap) uint {
	if swap.RequestedItem != nil {
		return swap.RequestedItem.OwnerID
	}
	return 0
}
