package services

import "github.com/rewearhq/rewear/app/models"

// Actor is the authenticated caller, as extracted from the JWT by the auth
// middleware. Services receive it explicitly; there is no global current user.
type Actor struct {
	ID   uint
	Role string
}

// Admin reports whether the actor holds the admin role.
func (a Actor) Admin() bool { return a.Role == models.RoleAdmin }

// ─── Ownership / role policy ─────────────────────────────────────────────────
// All ownership and role checks live here so every workflow applies the same
// rules. Each guard returns a sentinel error for the controller to map.

// canManageUser allows a user to act on their own account, or an admin on any.
func canManageUser(actor Actor, userID uint) error {
	if actor.ID == userID || actor.Admin() {
		return nil
	}
	return ErrForbidden
}

// canUpdateItem allows only the owner to edit an item.
func canUpdateItem(actor Actor, item *models.Item) error {
	if actor.ID == item.OwnerID {
		return nil
	}
	return ErrForbidden
}

// canDeleteItem allows the owner or an admin to delete an item.
func canDeleteItem(actor Actor, item *models.Item) error {
	if actor.ID == item.OwnerID || actor.Admin() {
		return nil
	}
	return ErrForbidden
}

// canViewItem hides unapproved items from everyone but the owner and admins.
func canViewItem(actor Actor, item *models.Item) error {
	if item.IsApproved || actor.ID == item.OwnerID || actor.Admin() {
		return nil
	}
	return ErrNotFound
}

// canViewSwap allows only the participants: the requester and the owner of
// the requested item.
func canViewSwap(actor Actor, swap *models.Swap, requestedItemOwner uint) error {
	if actor.ID == swap.RequesterID || actor.ID == requestedItemOwner {
		return nil
	}
	return ErrNotFound
}

// canDecideSwap allows only the owner of the requested item to accept,
// reject, or complete a swap.
func canDecideSwap(actor Actor, requestedItemOwner uint) error {
	if actor.ID == requestedItemOwner {
		return nil
	}
	return ErrForbidden
}

// canCancelSwap allows only the requester to cancel their own swap.
func canCancelSwap(actor Actor, swap *models.Swap) error {
	if actor.ID == swap.RequesterID {
		return nil
	}
	return ErrForbidden
}
