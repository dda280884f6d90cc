package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/database"
	"github.com/rewearhq/rewear/pkg/orm"
)

func TestAdjustIsAdminOnly(t *testing.T) {
	setupDB(t)
	svc := services.NewPointsService()

	user := mustUser(t, "user@example.com", models.RoleUser, 0)
	_, err := svc.Adjust(asActor(user), services.AdjustInput{
		UserID: user.ID, ChangeAmount: 100, TransactionType: models.TxBonus,
	})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestAdjustEnforcesSignConvention(t *testing.T) {
	setupDB(t)
	svc := services.NewPointsService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	user := mustUser(t, "user@example.com", models.RoleUser, 0)

	cases := []struct {
		name   string
		amount int
		txType string
	}{
		{"earn must be positive", -10, models.TxEarnSwap},
		{"redeem must be negative", 10, models.TxRedeemItem},
		{"zero is meaningless", 0, models.TxBonus},
		{"unknown type", 10, "mystery_points"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Adjust(asActor(admin), services.AdjustInput{
				UserID: user.ID, ChangeAmount: tc.amount, TransactionType: tc.txType,
			})
			assert.ErrorIs(t, err, models.ErrLedgerSign)
		})
	}

	// Nothing was written along the way.
	assert.Empty(t, ledgerOf(t, user.ID))
	assert.Equal(t, 0, balanceOf(t, user.ID))
}

func TestAdjustCoWritesBalance(t *testing.T) {
	setupDB(t)
	svc := services.NewPointsService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	user := mustUser(t, "user@example.com", models.RoleUser, 0)

	tx, err := svc.Adjust(asActor(admin), services.AdjustInput{
		UserID: user.ID, ChangeAmount: 30, TransactionType: models.TxBonus,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, tx.ChangeAmount)
	assert.Equal(t, 30, balanceOf(t, user.ID))

	_, err = svc.Adjust(asActor(admin), services.AdjustInput{
		UserID: user.ID, ChangeAmount: -12, TransactionType: models.TxRedeemItem,
	})
	require.NoError(t, err)
	assert.Equal(t, 18, balanceOf(t, user.ID))
	assert.Len(t, ledgerOf(t, user.ID), 2)
}

func TestReconcileRepairsDrift(t *testing.T) {
	setupDB(t)
	svc := services.NewPointsService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	user := mustUser(t, "user@example.com", models.RoleUser, 0)

	_, err := svc.Adjust(asActor(admin), services.AdjustInput{
		UserID: user.ID, ChangeAmount: 40, TransactionType: models.TxBonus,
	})
	require.NoError(t, err)

	// Corrupt the denormalized column behind the ledger's back.
	require.NoError(t, database.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("points_balance", 999).Error)

	balance, err := svc.Reconcile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
	assert.Equal(t, 40, balanceOf(t, user.ID))

	// Re-running against a clean balance changes nothing.
	balance, err = svc.Reconcile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
}

func TestLedgerRowVisibility(t *testing.T) {
	setupDB(t)
	svc := services.NewPointsService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	other := mustUser(t, "other@example.com", models.RoleUser, 0)

	tx, err := svc.Adjust(asActor(admin), services.AdjustInput{
		UserID: owner.ID, ChangeAmount: 5, TransactionType: models.TxBonus,
	})
	require.NoError(t, err)

	// The owner and admins can read the row; everyone else gets not-found.
	_, err = svc.Get(asActor(owner), tx.ID)
	assert.NoError(t, err)
	_, err = svc.Get(asActor(admin), tx.ID)
	assert.NoError(t, err)
	_, err = svc.Get(asActor(other), tx.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestHistoryIsNewestFirst(t *testing.T) {
	setupDB(t)
	svc := services.NewPointsService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	user := mustUser(t, "user@example.com", models.RoleUser, 0)

	for _, amount := range []int{10, 20, 30} {
		_, err := svc.Adjust(asActor(admin), services.AdjustInput{
			UserID: user.ID, ChangeAmount: amount, TransactionType: models.TxBonus,
		})
		require.NoError(t, err)
	}

	txs, pg, err := svc.History(asActor(user), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pg.Total)
	require.Len(t, txs, 3)
	assert.Equal(t, 30, txs[0].ChangeAmount)
	assert.Equal(t, 10, txs[2].ChangeAmount)
}

// Two debits sized against the same starting balance must not both land:
// the balance update is conditioned on sufficient funds, so whichever
// commits second rolls back with ErrInsufficientBalance.
func TestCompetingDebitsCannotOverdraft(t *testing.T) {
	setupDB(t)

	user := mustUser(t, "user@example.com", models.RoleUser, 20)

	debit := func() error {
		ptx := models.PointsTransaction{
			UserID:          user.ID,
			ChangeAmount:    -20,
			TransactionType: models.TxRedeemItem,
		}
		return orm.Transaction(func(tx *orm.Query) error {
			return services.ApplyInTx(tx, &ptx)
		})
	}

	require.NoError(t, debit())
	assert.ErrorIs(t, debit(), services.ErrInsufficientBalance)

	// Only the first debit landed: one ledger row, balance at zero, no
	// orphaned row from the rolled-back attempt.
	assert.Len(t, ledgerOf(t, user.ID), 1)
	assert.Equal(t, 0, balanceOf(t, user.ID))
}
