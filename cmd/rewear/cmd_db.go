package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewearhq/rewear/config"
	"github.com/rewearhq/rewear/database/seeders"
	"github.com/rewearhq/rewear/pkg/database"
	"github.com/rewearhq/rewear/pkg/migration"
)

// dbCommand wraps a RunE with config loading and a live DB handle, so
// each schema command stays one line of intent.
func dbCommand(use, short, banner string, run func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			if err := database.Connect(); err != nil {
				return err
			}
			if banner != "" {
				fmt.Println(banner)
			}
			return run()
		},
	}
}

var (
	migrateCmd = dbCommand("migrate",
		"Run all pending database migrations", "Running migrations…",
		func() error { return migration.New(database.DB).Run() })

	migrateRollbackCmd = dbCommand("migrate:rollback",
		"Rollback the last batch of migrations", "Rolling back last batch…",
		func() error { return migration.New(database.DB).Rollback() })

	migrateStatusCmd = dbCommand("migrate:status",
		"Show the status of each migration", "",
		func() error { return migration.New(database.DB).Status() })

	seedCmd = dbCommand("seed",
		"Run all database seeders", "Running seeders…",
		func() error { return seeders.RunAll(database.DB) })
)
