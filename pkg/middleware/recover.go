package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/response"
)

// Recovery converts a downstream panic into a logged 500. Mount it
// inside reqid/metrics so those still observe the response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			logger.Error("panic recovered",
				"error", fmt.Sprintf("%v", p),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
