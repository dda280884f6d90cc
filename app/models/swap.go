package models

import "gorm.io/gorm"

// Swap lifecycle states. pending may move to accepted, rejected, or
// cancelled; accepted may move to completed; the rest are terminal.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusRejected  = "rejected"
	SwapStatusCancelled = "cancelled"
	SwapStatusCompleted = "completed"
)

// Swap is a request by one user to take another user's item, optionally
// offering one of their own items in exchange.
type Swap struct {
	gorm.Model
	RequesterID     uint   `gorm:"not null;index" json:"requester_id"`
	RequestedItemID uint   `gorm:"not null;index" json:"requested_item_id"`
	OfferedItemID   *uint  `gorm:"index"          json:"offered_item_id,omitempty"`
	Status          string `gorm:"size:20;not null;default:pending;index" json:"status"`

	RequestedItem *Item `gorm:"foreignKey:RequestedItemID" json:"requested_item,omitempty"`
	OfferedItem   *Item `gorm:"foreignKey:OfferedItemID"   json:"offered_item,omitempty"`
}

// IsTerminal reports whether no further transitions are allowed.
func (s *Swap) IsTerminal() bool {
	switch s.Status {
	case SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}
