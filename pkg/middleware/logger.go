package middleware

import (
	"net/http"
	"time"

	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/reqid"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger writes one access-log line per request and seeds the request
// context with a logger pre-tagged with the request id, so handlers that
// call logger.WithCtx(ctx) inherit the tag. Mount reqid.Middleware()
// first or the id field comes up empty.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		reqLog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}
