package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type MessageController struct {
	messages *services.MessageService
}

func NewMessageController() *MessageController {
	return &MessageController{messages: services.NewMessageService()}
}

// List handles GET /api/messages.
func (c *MessageController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	msgs, pg, err := c.messages.List(actor(r), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, msgs, pg)
}

// Create handles POST /api/messages.
func (c *MessageController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.MessageInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg, err := c.messages.Send(actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, msg)
}

// MarkRead handles POST /api/messages/{id}/read.
func (c *MessageController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	msg, err := c.messages.MarkRead(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, msg)
}
