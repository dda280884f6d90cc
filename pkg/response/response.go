// Package response renders the one JSON envelope every endpoint speaks:
// {"status": ..., "message": ..., "data": ..., "errors": ...}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rewearhq/rewear/pkg/orm"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func send(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func Success(w http.ResponseWriter, data interface{}) {
	send(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	send(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	send(w, status, envelope{Status: status, Message: message})
}

// ValidationError answers 422 with the per-field messages from
// validate.Struct.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	send(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Paginated wraps a page of rows with its orm.Pagination metadata under
// data.items / data.pagination.
func Paginated(w http.ResponseWriter, data interface{}, p orm.Pagination) {
	Success(w, map[string]interface{}{"items": data, "pagination": p})
}

func Unauthorized(w http.ResponseWriter) { Error(w, http.StatusUnauthorized, "Unauthorized") }

func Forbidden(w http.ResponseWriter) { Error(w, http.StatusForbidden, "Forbidden") }

func NotFound(w http.ResponseWriter) { Error(w, http.StatusNotFound, "Not found") }

// Conflict reports a guarded state transition that found the row already
// moved: a swap completed twice, an item no longer available.
func Conflict(w http.ResponseWriter, message string) { Error(w, http.StatusConflict, message) }
