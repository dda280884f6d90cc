package controllers

import (
	"net/http"

	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/bind"
	"github.com/rewearhq/rewear/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{auth: services.NewAuthService()}
}

// Register handles POST /api/users.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.auth.Register(in)
	if err != nil {
		if err == services.ErrConflict {
			response.Conflict(w, "email already registered")
			return
		}
		fail(w, r, err)
		return
	}
	response.Created(w, result)
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.auth.Login(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, result)
}

// Refresh handles POST /api/auth/refresh.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.auth.Refresh(in.RefreshToken)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, result)
}
