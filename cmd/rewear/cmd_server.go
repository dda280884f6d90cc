package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rewearhq/rewear/app/routes"
	"github.com/rewearhq/rewear/internal/server"
	"github.com/rewearhq/rewear/pkg/router"
	"github.com/rewearhq/rewear/pkg/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Start(ctx)
	},
}

// route:list mounts the API against a throwaway router and prints what
// got registered, sorted by path then method.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()
		routes.RegisterAPI(r, ws.NewHub())

		list := r.Routes()
		if len(list) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Path != list[j].Path {
				return list[i].Path < list[j].Path
			}
			return list[i].Method < list[j].Method
		})

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
		fmt.Fprintln(tw, "------\t----\t----")
		for _, ri := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return tw.Flush()
	},
}
