package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController() *CategoryController {
	return &CategoryController{categories: services.NewCategoryService()}
}

// List handles GET /api/categories (public).
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.List()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, cats)
}

// Create handles POST /api/categories (admin).
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.categories.Create(actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, cat)
}
