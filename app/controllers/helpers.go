// Package controllers holds the HTTP handlers. Controllers bind and validate
// input, call a service, and translate the result (or a sentinel error) into
// the response envelope. No business rules live here.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/middleware"
	"github.com/rewearhq/rewear/pkg/response"
)

// actor builds the service-layer caller identity from the request context set
// by the auth middleware.
func actor(r *http.Request) services.Actor {
	id, _ := middleware.UserIDFromCtx(r)
	role, _ := middleware.RoleFromCtx(r)
	return services.Actor{ID: id, Role: role}
}

// paramID parses a numeric {id}-style route parameter.
func paramID(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// queryID parses an optional numeric query parameter, 0 when absent or bad.
func queryID(raw string) uint {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// pageParams reads ?page= and ?limit= with sane defaults.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// fail maps service errors to HTTP responses. Unknown errors become a logged
// 500 with a generic message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, services.ErrConflict):
		response.Conflict(w, "resource state conflict")
	case errors.Is(err, services.ErrInvalidTransition):
		response.Conflict(w, "invalid state transition")
	case errors.Is(err, services.ErrInsufficientBalance):
		response.Error(w, http.StatusUnprocessableEntity, "insufficient points balance")
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrUnsupportedMedia):
		response.Error(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, models.ErrLedgerSign):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error("request failed", "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
