// Package jobs holds the queued background jobs. Each job type is registered
// by name at boot so the queue workers can rebuild it from its JSON payload.
package jobs

import (
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/queue"
	"github.com/rewearhq/rewear/pkg/schedule"
)

// ReconcileBalanceJob recomputes a user's points balance from the ledger sum
// and repairs the denormalized column if it drifted. Dispatched after manual
// admin adjustments; also runnable directly from the CLI.
type ReconcileBalanceJob struct {
	UserID uint `json:"user_id"`
}

func (j ReconcileBalanceJob) Handle() error {
	balance, err := services.NewPointsService().Reconcile(j.UserID)
	if err != nil {
		return err
	}
	logger.Info("jobs: balance reconciled", "user_id", j.UserID, "balance", balance)
	return nil
}

// RegisterAll wires every job type into the queue registry. Call once at boot.
func RegisterAll() {
	queue.Register("jobs.ReconcileBalanceJob", func() queue.Job {
		return &ReconcileBalanceJob{}
	})
}

// ScheduleReconcileSweep registers a nightly pass that queues a reconcile for
// every account, catching drift that slipped past the per-adjustment jobs.
func ScheduleReconcileSweep() {
	schedule.Daily().Name("points:reconcile-sweep").WithoutOverlapping().Run(func() {
		users := repositories.NewUserRepository()
		for page := 1; ; page++ {
			batch, pg, err := users.All(page, 100)
			if err != nil {
				logger.Error("jobs: reconcile sweep aborted", "error", err)
				return
			}
			for _, u := range batch {
				if err := queue.Dispatch(ReconcileBalanceJob{UserID: u.ID}); err != nil {
					logger.Error("jobs: reconcile dispatch failed", "user_id", u.ID, "error", err)
				}
			}
			if page >= pg.TotalPages {
				return
			}
		}
	})
}
