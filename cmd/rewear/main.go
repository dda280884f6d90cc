// Command rewear is the project CLI: HTTP server, migrations, seeders, queue
// workers, and maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/rewearhq/rewear/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rewear",
	Short: "ReWear — clothing swap marketplace backend",
	Long:  "ReWear is a community clothing exchange: list garments, swap them directly, or redeem them with points.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers & maintenance
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(pointsReconcileCmd)
}
