package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type RedemptionController struct {
	redemptions *services.RedemptionService
}

func NewRedemptionController() *RedemptionController {
	return &RedemptionController{redemptions: services.NewRedemptionService()}
}

// List handles GET /api/redemptions (?all=1 for admins).
func (c *RedemptionController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	all := r.URL.Query().Get("all") == "1"
	reds, pg, err := c.redemptions.List(actor(r), all, page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, reds, pg)
}

// Get handles GET /api/redemptions/{id}.
func (c *RedemptionController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	red, err := c.redemptions.Get(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, red)
}

// Create handles POST /api/redemptions.
func (c *RedemptionController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.RedeemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	red, err := c.redemptions.Redeem(actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, red)
}

// Approve handles POST /api/redemptions/{id}/approve (admin).
func (c *RedemptionController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	red, err := c.redemptions.Approve(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, red)
}

// Reject handles POST /api/redemptions/{id}/reject (admin).
func (c *RedemptionController) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	red, err := c.redemptions.Reject(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, red)
}
