package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/koustreak/colmeta/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve table metadata over HTTP",
		Long: `Start a read-only HTTP server:

  GET /healthz                 database ping
  GET /tables                  table names
  GET /tables/{table}          primary key and columns
  GET /tables/{table}/columns  columns only
  GET /keys/{prefix}           primary key for a constraint prefix (?all=true for every row)

The server stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			insp, db, err := a.inspector(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv := server.New(insp, db, server.Options{
				SystemFields: a.cfg.SystemFieldSet(),
				QueryTimeout: a.cfg.Database.QueryTimeout,
				Logger:       a.log,
			})
			return srv.ListenAndServe(ctx, addr, a.cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
