package models

import "gorm.io/gorm"

// Redemption states.
const (
	RedemptionStatusPending   = "pending"
	RedemptionStatusApproved  = "approved"
	RedemptionStatusRejected  = "rejected"
	RedemptionStatusCancelled = "cancelled"
)

// Redemption is a claim of an item with points. The redeemer is debited when
// the claim is created; approval credits the item owner, rejection refunds
// the redeemer.
type Redemption struct {
	gorm.Model
	UserID uint   `gorm:"not null;index" json:"user_id"`
	ItemID uint   `gorm:"not null;index" json:"item_id"`
	Status string `gorm:"size:20;not null;default:pending;index" json:"status"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
