package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rewearhq/rewear/pkg/auth"
	"github.com/rewearhq/rewear/pkg/response"
)

type userIDKey struct{}
type emailKey struct{}
type roleKey struct{}

// Auth validates the bearer token and stores the credential's subject id,
// email and role in the request context. There is no process-wide current
// user; everything downstream reads from the request context.
//
// For WebSocket upgrades (where browsers cannot set headers) the token may
// alternatively be passed as a ?token= query parameter.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			token = r.URL.Query().Get("token")
		}

		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, emailKey{}, claims.Email)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's id, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uint)
	return id, ok
}

// EmailFromCtx returns the authenticated user's email, if any.
func EmailFromCtx(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(emailKey{}).(string)
	return email, ok
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok
}

// IsAdmin reports whether the request carries an admin credential.
func IsAdmin(r *http.Request) bool {
	role, ok := RoleFromCtx(r)
	return ok && role == "admin"
}

// WithUser injects a credential into ctx directly. Test helper; the HTTP
// path always goes through Auth.
func WithUser(ctx context.Context, userID uint, email, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	ctx = context.WithValue(ctx, emailKey{}, email)
	return context.WithValue(ctx, roleKey{}, role)
}
