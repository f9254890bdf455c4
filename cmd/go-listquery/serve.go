package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-listquery/pkg/logging"
	"github.com/adfharrison1/go-listquery/pkg/metrics"
	"github.com/adfharrison1/go-listquery/pkg/server"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(load configLoader) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo list API over a seeded in-memory store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := load()
			if err != nil {
				return err
			}
			defer cleanup()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger := logging.WithComponent("serve")
			store := server.NewStore(cfg.Store)
			srv := server.NewServer(store,
				server.WithMetrics(metrics.New("listquery", nil)),
				server.WithLatency(cfg.Server.Latency),
			)
			if err := srv.InitStore(cfg.Store); err != nil {
				return err
			}

			store.StartBackgroundWorkers()
			defer store.StopBackgroundWorkers()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.ListenAndServe(ctx, cfg.Server, shutdownTimeout); err != nil {
				return err
			}

			srv.SaveStore(cfg.Store)
			logger.Info("server exited")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override server.port")

	return cmd
}
