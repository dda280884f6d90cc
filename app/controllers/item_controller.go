package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type ItemController struct {
	items *services.ItemService
}

func NewItemController() *ItemController {
	return &ItemController{items: services.NewItemService()}
}

// List handles GET /api/items with filter query params.
func (c *ItemController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r)

	f := repositories.ItemFilter{
		CategoryID:        queryID(q.Get("category")),
		OwnerID:           queryID(q.Get("owner")),
		Condition:         q.Get("condition"),
		Search:            q.Get("search"),
		Status:            q.Get("status"),
		IncludeUnapproved: q.Get("include_unapproved") == "1",
		Page:              page,
		Limit:             limit,
	}

	items, pg, err := c.items.List(actor(r), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, items, pg)
}

// Mine handles GET /api/items/mine.
func (c *ItemController) Mine(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	items, pg, err := c.items.Mine(actor(r), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, items, pg)
}

// Featured handles GET /api/items/featured.
func (c *ItemController) Featured(w http.ResponseWriter, r *http.Request) {
	items, err := c.items.Featured()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, items)
}

// Get handles GET /api/items/{id}.
func (c *ItemController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	item, err := c.items.Get(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, item)
}

// Create handles POST /api/items.
func (c *ItemController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.items.Create(actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, item)
}

// Update handles PUT /api/items/{id}.
func (c *ItemController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.ItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.items.Update(actor(r), id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, item)
}

// Delete handles DELETE /api/items/{id}.
func (c *ItemController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.items.Delete(actor(r), id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "item deleted"})
}

// Approve handles POST /api/items/{id}/approve (admin).
func (c *ItemController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	item, err := c.items.Approve(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, item)
}

// UploadImage handles POST /api/items/{id}/images (multipart).
func (c *ItemController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	img, err := c.items.UploadImage(actor(r), id, header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, img)
}
