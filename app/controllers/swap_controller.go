package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type SwapController struct {
	swaps *services.SwapService
}

func NewSwapController() *SwapController {
	return &SwapController{swaps: services.NewSwapService()}
}

// List handles GET /api/swaps.
func (c *SwapController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	swaps, pg, err := c.swaps.List(actor(r), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, swaps, pg)
}

// Get handles GET /api/swaps/{id}.
func (c *SwapController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	swap, err := c.swaps.Get(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, swap)
}

// Create handles POST /api/swaps.
func (c *SwapController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.SwapInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	swap, err := c.swaps.Request(actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, swap)
}

// UpdateStatus handles PUT /api/swaps/{id} with body {"status": "..."}.
func (c *SwapController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in struct {
		Status string `json:"status" validate:"required,in=accepted,rejected,completed"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var (
		swap models.Swap
		err  error
	)
	if in.Status == models.SwapStatusCompleted {
		swap, err = c.swaps.Complete(actor(r), id)
	} else {
		swap, err = c.swaps.Decide(actor(r), id, in.Status)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, swap)
}

// Cancel handles DELETE /api/swaps/{id}.
func (c *SwapController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.swaps.Cancel(actor(r), id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "swap cancelled"})
}
