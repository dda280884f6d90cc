// Package rbac gates routes on the role carried by the auth credential.
package rbac

import (
	"net/http"

	"github.com/rewearhq/rewear/pkg/middleware"
	"github.com/rewearhq/rewear/pkg/response"
)

// HasRole admits only requests whose credential carries one of the given
// roles. Mount after middleware.Auth; an anonymous request is forbidden.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allow := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allow[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Forbidden(w)
				return
			}
			if _, permitted := allow[role]; !permitted {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest rejects requests that already carry a credential; login and
// register sit behind it.
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
