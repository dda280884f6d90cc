package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type UserController struct {
	users *services.UserService
}

func NewUserController() *UserController {
	return &UserController{users: services.NewUserService()}
}

// List handles GET /api/users (admin).
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	users, pg, err := c.users.List(actor(r), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, users, pg)
}

// Me handles GET /api/users/me.
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	a := actor(r)
	user, err := c.users.Get(a, a.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Get handles GET /api/users/{id}.
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	user, err := c.users.Get(actor(r), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Update handles PUT /api/users/{id}.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.UpdateUserInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.Update(actor(r), id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Delete handles DELETE /api/users/{id}.
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.users.Delete(actor(r), id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "account deleted"})
}
