package repositories

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/orm"
)

// MessageRepository handles database operations for Message.
type MessageRepository struct{}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// FindByID loads a single message.
func (r *MessageRepository) FindByID(id uint) (models.Message, error) {
	var msg models.Message
	err := orm.DB().Model(&models.Message{}).Where("id = ?", id).First(&msg)
	return msg, err
}

// ForUser returns messages the user sent or received, newest first.
func (r *MessageRepository) ForUser(userID uint, page, limit int) ([]models.Message, orm.Pagination, error) {
	var msgs []models.Message
	pagination, err := orm.DB().Model(&models.Message{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		GetWithPagination(&msgs, page, limit)
	return msgs, pagination, err
}

// Create persists a new message.
func (r *MessageRepository) Create(msg *models.Message) error {
	return orm.DB().Create(msg)
}

// MarkRead flips the read flag on a message.
func (r *MessageRepository) MarkRead(id uint) error {
	_, err := orm.DB().Model(&models.Message{}).Where("id = ?", id).Update("read", true)
	return err
}
