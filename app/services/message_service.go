package services

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/pkg/event"
	"github.com/rewearhq/rewear/pkg/orm"
)

type MessageService struct {
	messages *repositories.MessageRepository
	users    *repositories.UserRepository
}

func NewMessageService() *MessageService {
	return &MessageService{
		messages: repositories.NewMessageRepository(),
		users:    repositories.NewUserRepository(),
	}
}

// List returns messages the caller sent or received, newest first.
func (s *MessageService) List(actor Actor, page, limit int) ([]models.Message, orm.Pagination, error) {
	return s.messages.ForUser(actor.ID, page, limit)
}

type MessageInput struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Content    string `json:"content"     validate:"required,max=2000"`
}

// Send delivers a message to another user. The message.sent event drives the
// receiver's live notification.
func (s *MessageService) Send(actor Actor, in MessageInput) (models.Message, error) {
	if in.ReceiverID == actor.ID {
		return models.Message{}, ErrConflict
	}
	if _, err := s.users.FindByID(in.ReceiverID); err != nil {
		if orm.IsNotFound(err) {
			return models.Message{}, ErrNotFound
		}
		return models.Message{}, err
	}

	msg := models.Message{
		SenderID:   actor.ID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	}
	if err := s.messages.Create(&msg); err != nil {
		return models.Message{}, err
	}

	event.FireAsync("message.sent", msg)
	return msg, nil
}

// MarkRead flags a message as read. Only the receiver may mark it.
func (s *MessageService) MarkRead(actor Actor, id uint) (models.Message, error) {
	msg, err := s.messages.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Message{}, ErrNotFound
		}
		return models.Message{}, err
	}
	if msg.SenderID != actor.ID && msg.ReceiverID != actor.ID {
		return models.Message{}, ErrNotFound
	}
	if msg.ReceiverID != actor.ID {
		return models.Message{}, ErrForbidden
	}

	if !msg.Read {
		if err := s.messages.MarkRead(msg.ID); err != nil {
			return models.Message{}, err
		}
		msg.Read = true
	}
	return msg, nil
}
