package models

import "gorm.io/gorm"

// Item lifecycle states.
const (
	ItemStatusAvailable         = "available"
	ItemStatusPendingSwap       = "pending_swap"
	ItemStatusPendingRedemption = "pending_redemption"
	ItemStatusSwapped           = "swapped"
	ItemStatusRedeemed          = "redeemed"
	ItemStatusArchived          = "archived"
)

// Item conditions, as shown to users.
const (
	ConditionNew     = "New"
	ConditionLikeNew = "Like New"
	ConditionGood    = "Good"
	ConditionFair    = "Fair"
)

// Item is a garment listed for swapping or point redemption.
// New items start unapproved and are hidden from public listings until an
// admin approves them.
type Item struct {
	gorm.Model
	OwnerID     uint   `gorm:"not null;index"        json:"owner_id"`
	CategoryID  *uint  `gorm:"index"                 json:"category_id,omitempty"`
	Title       string `gorm:"size:150;not null"     json:"title"`
	Description string `gorm:"type:text"             json:"description"`
	Size        string `gorm:"size:20"               json:"size,omitempty"`
	Condition   string `gorm:"size:20;not null"      json:"condition"`
	PointCost   int    `gorm:"not null;default:0"    json:"point_cost"`
	Status      string `gorm:"size:30;not null;default:available;index" json:"status"`
	IsApproved  bool   `gorm:"not null;default:false;index"             json:"is_approved"`

	Images []ItemImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Tags   []ItemTag   `gorm:"constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// ItemImage is one uploaded photo of an item, ordered by SortOrder.
type ItemImage struct {
	gorm.Model
	ItemID    uint   `gorm:"not null;index"    json:"item_id"`
	URL       string `gorm:"size:512;not null" json:"url"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// ItemTag is a free-form label on an item (composite-unique per item).
type ItemTag struct {
	gorm.Model
	ItemID uint   `gorm:"not null;uniqueIndex:idx_item_tag" json:"item_id"`
	Name   string `gorm:"size:50;not null;uniqueIndex:idx_item_tag" json:"name"`
}
