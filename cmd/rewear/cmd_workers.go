package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rewearhq/rewear/app/jobs"
	"github.com/rewearhq/rewear/app/repositories"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/config"
	"github.com/rewearhq/rewear/pkg/cache"
	"github.com/rewearhq/rewear/pkg/database"
	"github.com/rewearhq/rewear/pkg/queue"
)

// bootDB loads config and opens the database for worker-style commands.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

var queueWorkersFlag int

// rewear queue:work, the standalone queue worker process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		if err := cache.Connect(); err == nil && config.QueueDriver() == "redis" && cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}
		queue.UseDB(database.DB)
		jobs.RegisterAll()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

var reconcileUserFlag uint

// rewear points:reconcile recomputes balances from the ledger.
var pointsReconcileCmd = &cobra.Command{
	Use:   "points:reconcile",
	Short: "Recompute points balances from the ledger (one user with --user, else all)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		points := services.NewPointsService()
		if reconcileUserFlag > 0 {
			balance, err := points.Reconcile(reconcileUserFlag)
			if err != nil {
				return err
			}
			fmt.Printf("user %d balance: %d\n", reconcileUserFlag, balance)
			return nil
		}

		users := repositories.NewUserRepository()
		for page := 1; ; page++ {
			batch, pg, err := users.All(page, 100)
			if err != nil {
				return err
			}
			for _, u := range batch {
				balance, err := points.Reconcile(u.ID)
				if err != nil {
					return err
				}
				fmt.Printf("user %d balance: %d\n", u.ID, balance)
			}
			if page >= pg.TotalPages {
				return nil
			}
		}
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (default from QUEUE_WORKERS)")
	pointsReconcileCmd.Flags().UintVarP(&reconcileUserFlag, "user", "u", 0, "Reconcile a single user id")
}
