package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
)

func TestSwapRequestGuards(t *testing.T) {
	setupDB(t)
	svc := services.NewSwapService()

	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	requester := mustUser(t, "req@example.com", models.RoleUser, 0)

	t.Run("own item", func(t *testing.T) {
		item := mustItem(t, owner.ID, 10, true, models.ItemStatusAvailable)
		_, err := svc.Request(asActor(owner), services.SwapInput{RequestedItemID: item.ID})
		assert.ErrorIs(t, err, services.ErrConflict)
	})

	t.Run("unapproved item reads as missing", func(t *testing.T) {
		item := mustItem(t, owner.ID, 10, false, models.ItemStatusAvailable)
		_, err := svc.Request(asActor(requester), services.SwapInput{RequestedItemID: item.ID})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("item already locked", func(t *testing.T) {
		item := mustItem(t, owner.ID, 10, true, models.ItemStatusPendingSwap)
		_, err := svc.Request(asActor(requester), services.SwapInput{RequestedItemID: item.ID})
		assert.ErrorIs(t, err, services.ErrConflict)
	})

	t.Run("offered item must be mine and available", func(t *testing.T) {
		item := mustItem(t, owner.ID, 10, true, models.ItemStatusAvailable)
		notMine := mustItem(t, owner.ID, 5, true, models.ItemStatusAvailable)
		_, err := svc.Request(asActor(requester), services.SwapInput{
			RequestedItemID: item.ID,
			OfferedItemID:   &notMine.ID,
		})
		assert.ErrorIs(t, err, services.ErrConflict)
		// The rollback must release the requested item.
		assert.Equal(t, models.ItemStatusAvailable, itemStatus(t, item.ID))
	})

	t.Run("success locks the item", func(t *testing.T) {
		item := mustItem(t, owner.ID, 10, true, models.ItemStatusAvailable)
		swap, err := svc.Request(asActor(requester), services.SwapInput{RequestedItemID: item.ID})
		require.NoError(t, err)
		assert.Equal(t, models.SwapStatusPending, swap.Status)
		assert.Equal(t, models.ItemStatusPendingSwap, itemStatus(t, item.ID))
	})
}

func TestSwapTransitionMatrix(t *testing.T) {
	setupDB(t)
	svc := services.NewSwapService()

	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	requester := mustUser(t, "req@example.com", models.RoleUser, 0)

	newSwap := func(t *testing.T) models.Swap {
		item := mustItem(t, owner.ID, 10, true, models.ItemStatusAvailable)
		swap, err := svc.Request(asActor(requester), services.SwapInput{RequestedItemID: item.ID})
		require.NoError(t, err)
		return swap
	}

	t.Run("only the item owner decides", func(t *testing.T) {
		swap := newSwap(t)
		_, err := svc.Decide(asActor(requester), swap.ID, models.SwapStatusAccepted)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("complete requires accepted", func(t *testing.T) {
		swap := newSwap(t)
		_, err := svc.Complete(asActor(owner), swap.ID)
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	})

	t.Run("terminal states refuse transitions", func(t *testing.T) {
		swap := newSwap(t)
		_, err := svc.Decide(asActor(owner), swap.ID, models.SwapStatusRejected)
		require.NoError(t, err)

		_, err = svc.Decide(asActor(owner), swap.ID, models.SwapStatusAccepted)
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
		err = svc.Cancel(asActor(requester), swap.ID)
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	})

	t.Run("rejection releases the item", func(t *testing.T) {
		swap := newSwap(t)
		_, err := svc.Decide(asActor(owner), swap.ID, models.SwapStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, models.ItemStatusAvailable, itemStatus(t, swap.RequestedItemID))
	})

	t.Run("only the requester cancels", func(t *testing.T) {
		swap := newSwap(t)
		err := svc.Cancel(asActor(owner), swap.ID)
		assert.ErrorIs(t, err, services.ErrForbidden)

		require.NoError(t, svc.Cancel(asActor(requester), swap.ID))
		assert.Equal(t, models.ItemStatusAvailable, itemStatus(t, swap.RequestedItemID))
	})

	t.Run("decide rejects invalid statuses", func(t *testing.T) {
		swap := newSwap(t)
		_, err := svc.Decide(asActor(owner), swap.ID, "sideways")
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	})
}

func TestSwapListIsParticipantUnion(t *testing.T) {
	setupDB(t)
	svc := services.NewSwapService()

	alice := mustUser(t, "alice@example.com", models.RoleUser, 0)
	bob := mustUser(t, "bob@example.com", models.RoleUser, 0)
	carol := mustUser(t, "carol@example.com", models.RoleUser, 0)

	bobsItem := mustItem(t, bob.ID, 10, true, models.ItemStatusAvailable)
	alicesItem := mustItem(t, alice.ID, 15, true, models.ItemStatusAvailable)
	carolsItem := mustItem(t, carol.ID, 20, true, models.ItemStatusAvailable)

	requested, err := svc.Request(asActor(alice), services.SwapInput{RequestedItemID: bobsItem.ID})
	require.NoError(t, err)
	incoming, err := svc.Request(asActor(bob), services.SwapInput{RequestedItemID: alicesItem.ID})
	require.NoError(t, err)
	unrelated, err := svc.Request(asActor(bob), services.SwapInput{RequestedItemID: carolsItem.ID})
	require.NoError(t, err)

	swaps, _, err := svc.List(asActor(alice), 1, 20)
	require.NoError(t, err)

	ids := make([]uint, 0, len(swaps))
	for _, s := range swaps {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []uint{requested.ID, incoming.ID}, ids)
	assert.NotContains(t, ids, unrelated.ID)
}

func TestSwapEndToEnd(t *testing.T) {
	setupDB(t)
	items := services.NewItemService()
	swaps := services.NewSwapService()

	admin := mustUser(t, "admin@example.com", models.RoleAdmin, 0)
	alice := mustUser(t, "alice@example.com", models.RoleUser, 0)
	bob := mustUser(t, "bob@example.com", models.RoleUser, 0)

	listed, err := items.Create(asActor(bob), services.ItemInput{
		Title:       "Wool Coat",
		Description: "Warm winter coat",
		Condition:   models.ConditionLikeNew,
		PointCost:   20,
	})
	require.NoError(t, err)

	// Invisible and worth nothing until approved.
	_, err = items.Get(asActor(alice), listed.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, 0, balanceOf(t, bob.ID))

	_, err = items.Approve(asActor(admin), listed.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balanceOf(t, bob.ID))

	swap, err := swaps.Request(asActor(alice), services.SwapInput{RequestedItemID: listed.ID})
	require.NoError(t, err)

	_, err = swaps.Decide(asActor(bob), swap.ID, models.SwapStatusAccepted)
	require.NoError(t, err)

	done, err := swaps.Complete(asActor(bob), swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusCompleted, done.Status)
	assert.Equal(t, models.ItemStatusSwapped, itemStatus(t, listed.ID))

	ledger := ledgerOf(t, bob.ID)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.TxEarnSwap, ledger[0].TransactionType)
	assert.Equal(t, 20, ledger[0].ChangeAmount)
	require.NotNil(t, ledger[0].ReferenceID)
	assert.Equal(t, swap.ID, *ledger[0].ReferenceID)

	assert.Equal(t, 20, balanceOf(t, bob.ID))
	assert.Equal(t, 0, balanceOf(t, alice.ID))
	assert.Empty(t, ledgerOf(t, alice.ID))
}

func TestSwapDoubleCompleteCreditsOnce(t *testing.T) {
	setupDB(t)
	svc := services.NewSwapService()

	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	requester := mustUser(t, "req@example.com", models.RoleUser, 0)
	item := mustItem(t, owner.ID, 25, true, models.ItemStatusAvailable)

	swap, err := svc.Request(asActor(requester), services.SwapInput{RequestedItemID: item.ID})
	require.NoError(t, err)
	_, err = svc.Decide(asActor(owner), swap.ID, models.SwapStatusAccepted)
	require.NoError(t, err)

	first, err := svc.Complete(asActor(owner), swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusCompleted, first.Status)

	// A retry is a quiet no-op that returns the completed swap.
	second, err := svc.Complete(asActor(owner), swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusCompleted, second.Status)

	require.Len(t, ledgerOf(t, owner.ID), 1)
	assert.Equal(t, 25, balanceOf(t, owner.ID))
}

// Removing an item from the catalog must not erase its owner's view of
// the swaps it was part of.
func TestSwapVisibilitySurvivesItemDeletion(t *testing.T) {
	setupDB(t)
	svc := services.NewSwapService()
	items := services.NewItemService()

	owner := mustUser(t, "owner@example.com", models.RoleUser, 0)
	requester := mustUser(t, "req@example.com", models.RoleUser, 0)

	item := mustItem(t, owner.ID, 10, true, models.ItemStatusAvailable)
	swap, err := svc.Request(asActor(requester), services.SwapInput{RequestedItemID: item.ID})
	require.NoError(t, err)
	_, err = svc.Decide(asActor(owner), swap.ID, models.SwapStatusRejected)
	require.NoError(t, err)

	require.NoError(t, items.Delete(asActor(owner), item.ID))

	got, err := svc.Get(asActor(owner), swap.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RequestedItem)
	assert.Equal(t, owner.ID, got.RequestedItem.OwnerID)

	listed, _, err := svc.List(asActor(owner), 1, 20)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, swap.ID, listed[0].ID)
}
