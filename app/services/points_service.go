package services

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/event"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/metrics"
	"github.com/rewearhq/rewear/pkg/orm"
	"gorm.io/gorm"
)

// PointsService owns the append-only ledger. Every balance mutation in the
// system goes through ApplyInTx so the ledger row and the denormalized
// users.points_balance column commit or roll back together.
type PointsService struct {
	repo  *repositories.PointsRepository
	users *repositories.UserRepository
}

func NewPointsService() *PointsService {
	return &PointsService{
		repo:  repositories.NewPointsRepository(),
		users: repositories.NewUserRepository(),
	}
}

// History returns the caller's own ledger, newest first.
func (s *PointsService) History(actor Actor, page, limit int) ([]models.PointsTransaction, orm.Pagination, error) {
	return s.repo.ForUser(actor.ID, page, limit)
}

// Get returns a single ledger row. Rows belonging to other users read as
// not-found so their existence is not leaked.
func (s *PointsService) Get(actor Actor, id uint) (models.PointsTransaction, error) {
	tx, err := s.repo.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.PointsTransaction{}, ErrNotFound
		}
		return models.PointsTransaction{}, err
	}
	if tx.UserID != actor.ID && !actor.Admin() {
		return models.PointsTransaction{}, ErrNotFound
	}
	return tx, nil
}

// AdjustInput is an admin manual ledger adjustment.
type AdjustInput struct {
	UserID          uint   `json:"user_id"          validate:"required"`
	ChangeAmount    int    `json:"change_amount"    validate:"required"`
	TransactionType string `json:"transaction_type" validate:"required"`
	ReferenceID     *uint  `json:"reference_id"`
}

// Adjust applies a manual adjustment to any user's balance (admin only) and
// returns the created ledger row. The sign convention is enforced; the
// balance is co-written in the same transaction.
func (s *PointsService) Adjust(actor Actor, in AdjustInput) (models.PointsTransaction, error) {
	if !actor.Admin() {
		return models.PointsTransaction{}, ErrForbidden
	}

	if _, err := s.users.FindByID(in.UserID); err != nil {
		if orm.IsNotFound(err) {
			return models.PointsTransaction{}, ErrNotFound
		}
		return models.PointsTransaction{}, err
	}

	ptx := models.PointsTransaction{
		UserID:          in.UserID,
		ChangeAmount:    in.ChangeAmount,
		TransactionType: in.TransactionType,
		ReferenceID:     in.ReferenceID,
	}
	if err := ptx.ValidateSign(); err != nil {
		return models.PointsTransaction{}, err
	}

	err := orm.Transaction(func(tx *orm.Query) error {
		return ApplyInTx(tx, &ptx)
	})
	if err != nil {
		return models.PointsTransaction{}, err
	}

	// Listeners dispatch a reconcile job for the touched account.
	event.FireAsync("points.adjusted", ptx)
	logger.Info("points: manual adjustment",
		"admin_id", actor.ID, "user_id", in.UserID,
		"amount", in.ChangeAmount, "type", in.TransactionType)
	return ptx, nil
}

// Reconcile recomputes a user's balance from the ledger sum and repairs any
// drift in the denormalized column. Returns the authoritative balance.
func (s *PointsService) Reconcile(userID uint) (int, error) {
	sum, err := s.repo.SumForUser(userID)
	if err != nil {
		return 0, err
	}

	rows, err := orm.DB().Model(&models.User{}).
		Where("id = ? AND points_balance <> ?", userID, sum).
		Update("points_balance", sum)
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		logger.Warn("points: balance drift repaired", "user_id", userID, "balance", sum)
	}
	return sum, nil
}

// ApplyInTx validates the sign convention, appends the ledger row, and bumps
// the user's balance, all on the supplied transaction handle. Workflow
// services (swap completion, redemption) call this inside their own
// transactions so the whole state change is atomic.
//
// Debits are guarded: the balance update carries a points_balance >= amount
// condition, so two claims racing over the same balance cannot both commit.
// The losing update matches zero rows and the whole transaction rolls back
// with ErrInsufficientBalance.
func ApplyInTx(tx *orm.Query, ptx *models.PointsTransaction) error {
	if err := ptx.ValidateSign(); err != nil {
		return err
	}

	if err := tx.Create(ptx); err != nil {
		return err
	}

	q := tx.Model(&models.User{}).Where("id = ?", ptx.UserID)
	if ptx.ChangeAmount < 0 {
		q = q.Where("points_balance >= ?", -ptx.ChangeAmount)
	}
	rows, err := q.Update("points_balance", gorm.Expr("points_balance + ?", ptx.ChangeAmount))
	if err != nil {
		return err
	}
	if rows == 0 {
		if ptx.ChangeAmount < 0 {
			return ErrInsufficientBalance
		}
		return ErrNotFound
	}

	metrics.RecordPoints(ptx.TransactionType, ptx.ChangeAmount)
	return nil
}
