package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type PointsController struct {
	points *services.PointsService
}

func NewPointsController() *PointsController {
	return &PointsController{points: services.NewPointsService()}
}

// List handles GET /api/points: the caller's own ledger.
func (c *PointsController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	txs, pg, err := c.points.History(actor(r), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, txs, pg)
}

// Get handles GET /api/points/{id}.
func (c *PointsController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	tx, err := c.points.Get(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, tx)
}

// Adjust handles POST /api/points (admin manual adjustment).
func (c *PointsController) Adjust(w http.ResponseWriter, r *http.Request) {
	var in services.AdjustInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tx, err := c.points.Adjust(actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, tx)
}
