// Package logger provides a structured, levelled logger built on log/slog.
//
// The key extension over plain slog is WithCtx: it returns the per-request
// logger the middleware stored in the request context, so every log line from
// a handler is automatically correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("swap completed", "swap_id", swap.ID)
//	// → time=... level=INFO msg="swap completed" request_id=a1b2c3d4 swap_id=42
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/rewearhq/rewear/config"
)

var L *slog.Logger

// mongoSink holds the Mongo handler when one is attached, so Shutdown can
// flush it.
var mongoSink *mongoHandler

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		// structured JSON for log aggregators
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		// human-readable for dev
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// AttachMongo adds an asynchronous MongoDB sink alongside the stdout handler.
// Called from server boot when MONGO_LOG_URI is configured; a connection
// failure is returned so the caller can log a warning and carry on.
func AttachMongo(uri, db, collection string) error {
	mh, err := newMongoHandler(uri, db, collection)
	if err != nil {
		return err
	}
	mongoSink = mh
	L = slog.New(tee{handlers: []slog.Handler{L.Handler(), mh}})
	slog.SetDefault(L)
	return nil
}

// Shutdown flushes and closes the Mongo sink if one was attached.
func Shutdown() {
	if mongoSink != nil {
		mongoSink.close()
		mongoSink = nil
	}
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the *slog.Logger stored in ctx by the request middleware,
// already tagged with request_id. Falls back to the base logger when none is
// present (background jobs, tests).
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the request-ID middleware; not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
