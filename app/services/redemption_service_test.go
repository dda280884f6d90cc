package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/event"
)

func TestRedeemOverdraftRejected(t *testing.T) {
	setupDB(t)
	svc := services.NewRedemptionService()

	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	broke := mustUser(t, "broke@example.com", models.RoleUser, 10)
	item := mustItem(t, owner.ID, 20, true, models.ItemStatusAvailable)

	_, err := svc.Redeem(asActor(broke), services.RedeemInput{ItemID: item.ID})
	assert.ErrorIs(t, err, services.ErrInsufficientBalance)

	// Nothing moved: no ledger rows, balance intact, item still listed.
	assert.Empty(t, ledgerOf(t, broke.ID))
	assert.Equal(t, 10, balanceOf(t, broke.ID))
	assert.Equal(t, models.ItemStatusAvailable, itemStatus(t, item.ID))
}

func TestRedeemGuards(t *testing.T) {
	setupDB(t)
	svc := services.NewRedemptionService()

	owner := mustUser(t, "owner@example.com", models.RoleUser, 100)
	buyer := mustUser(t, "buyer@example.com", models.RoleUser, 100)

	t.Run("own item", func(t *testing.T) {
		item := mustItem(t, owner.ID, 20, true, models.ItemStatusAvailable)
		_, err := svc.Redeem(asActor(owner), services.RedeemInput{ItemID: item.ID})
		assert.ErrorIs(t, err, services.ErrConflict)
	})

	t.Run("unapproved item reads as missing", func(t *testing.T) {
		item := mustItem(t, owner.ID, 20, false, models.ItemStatusAvailable)
		_, err := svc.Redeem(asActor(buyer), services.RedeemInput{ItemID: item.ID})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("locked item", func(t *testing.T) {
		item := mustItem(t, owner.ID, 20, true, models.ItemStatusPendingSwap)
		_, err := svc.Redeem(asActor(buyer), services.RedeemInput{ItemID: item.ID})
		assert.ErrorIs(t, err, services.ErrConflict)
	})
}

func TestRedemptionEndToEnd(t *testing.T) {
	setupDB(t)
	svc := services.NewRedemptionService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	buyer := mustUser(t, "buyer@example.com", models.RoleUser, 50)
	item := mustItem(t, owner.ID, 20, true, models.ItemStatusAvailable)

	red, err := svc.Redeem(asActor(buyer), services.RedeemInput{ItemID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusPending, red.Status)
	assert.Equal(t, models.ItemStatusPendingRedemption, itemStatus(t, item.ID))
	assert.Equal(t, 30, balanceOf(t, buyer.ID))

	ledger := ledgerOf(t, buyer.ID)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.TxRedeemItem, ledger[0].TransactionType)
	assert.Equal(t, -20, ledger[0].ChangeAmount)
	require.NotNil(t, ledger[0].ReferenceID)
	assert.Equal(t, item.ID, *ledger[0].ReferenceID)

	// Only admins decide.
	_, err = svc.Approve(asActor(buyer), red.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	approved, err := svc.Approve(asActor(admin), red.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusApproved, approved.Status)
	assert.Equal(t, models.ItemStatusRedeemed, itemStatus(t, item.ID))

	ownerLedger := ledgerOf(t, owner.ID)
	require.Len(t, ownerLedger, 1)
	assert.Equal(t, models.TxEarnRedemption, ownerLedger[0].TransactionType)
	assert.Equal(t, 20, ownerLedger[0].ChangeAmount)
	require.NotNil(t, ownerLedger[0].ReferenceID)
	assert.Equal(t, red.ID, *ownerLedger[0].ReferenceID)
	assert.Equal(t, 20, balanceOf(t, owner.ID))

	// A second approve is refused and credits nothing further.
	_, err = svc.Approve(asActor(admin), red.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	require.Len(t, ledgerOf(t, owner.ID), 1)
}

func TestRedemptionRejectRefunds(t *testing.T) {
	setupDB(t)
	svc := services.NewRedemptionService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	buyer := mustUser(t, "buyer@example.com", models.RoleUser, 50)
	item := mustItem(t, owner.ID, 20, true, models.ItemStatusAvailable)

	red, err := svc.Redeem(asActor(buyer), services.RedeemInput{ItemID: item.ID})
	require.NoError(t, err)
	require.Equal(t, 30, balanceOf(t, buyer.ID))

	rejected, err := svc.Reject(asActor(admin), red.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusRejected, rejected.Status)

	// Refunded in full, item back on the shelf, owner untouched.
	assert.Equal(t, 50, balanceOf(t, buyer.ID))
	assert.Equal(t, models.ItemStatusAvailable, itemStatus(t, item.ID))
	assert.Empty(t, ledgerOf(t, owner.ID))

	ledger := ledgerOf(t, buyer.ID)
	require.Len(t, ledger, 2)
	assert.Equal(t, models.TxRefund, ledger[1].TransactionType)
	assert.Equal(t, 20, ledger[1].ChangeAmount)
}

// The redemption.requested payload must carry the Item association so the
// listener can address the item's owner.
func TestRedeemNotifiesWithItemLoaded(t *testing.T) {
	setupDB(t)
	svc := services.NewRedemptionService()

	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	buyer := mustUser(t, "buyer@example.com", models.RoleUser, 50)
	item := mustItem(t, owner.ID, 20, true, models.ItemStatusAvailable)

	fired := make(chan models.Redemption, 1)
	event.Listen("redemption.requested", func(payload interface{}) {
		if red, ok := payload.(models.Redemption); ok {
			fired <- red
		}
	})
	t.Cleanup(event.Flush)

	red, err := svc.Redeem(asActor(buyer), services.RedeemInput{ItemID: item.ID})
	require.NoError(t, err)
	require.NotNil(t, red.Item)

	select {
	case got := <-fired:
		require.NotNil(t, got.Item)
		assert.Equal(t, owner.ID, got.Item.OwnerID)
	case <-time.After(2 * time.Second):
		t.Fatal("redemption.requested was never delivered")
	}
}
