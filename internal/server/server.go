// Package server boots every subsystem and runs the HTTP listener.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rewearhq/rewear/app/jobs"
	"github.com/rewearhq/rewear/app/listeners"
	"github.com/rewearhq/rewear/app/routes"
	"github.com/rewearhq/rewear/config"
	"github.com/rewearhq/rewear/pkg/cache"
	"github.com/rewearhq/rewear/pkg/database"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/metrics"
	"github.com/rewearhq/rewear/pkg/middleware"
	"github.com/rewearhq/rewear/pkg/queue"
	"github.com/rewearhq/rewear/pkg/reqid"
	"github.com/rewearhq/rewear/pkg/router"
	"github.com/rewearhq/rewear/pkg/schedule"
	"github.com/rewearhq/rewear/pkg/storage"
	"github.com/rewearhq/rewear/pkg/ws"
)

// Start boots config, database, cache, storage, queue, and the notification
// hub, then serves HTTP until ctx is cancelled. It shuts down gracefully.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.MongoLogURI(); uri != "" {
		if err := logger.AttachMongo(uri, config.MongoLogDB(), config.MongoLogColl()); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}
	defer logger.Shutdown()

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
	}
	storage.Connect()

	// Queue: redis when configured and reachable, in-memory otherwise.
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)
	jobs.RegisterAll()
	jobs.ScheduleReconcileSweep()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	queue.StartWorkers(workerCtx, config.QueueWorkers())
	schedule.Start(workerCtx)

	hub := ws.NewHub()
	go hub.Run()
	listeners.Register(hub)

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
	)
	routes.RegisterAPI(r, hub)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
