package models

import "gorm.io/gorm"

// Message is a user-to-user message, typically part of a swap negotiation.
type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index"     json:"sender_id"`
	ReceiverID uint   `gorm:"not null;index"     json:"receiver_id"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Read       bool   `gorm:"not null;default:false" json:"read"`
}
