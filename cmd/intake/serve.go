package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/intake/internal/action"
	"github.com/zulandar/intake/internal/api"
	"github.com/zulandar/intake/internal/db"
	"github.com/zulandar/intake/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		accessLog  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the action-item HTTP API",
		Long:  "Connects to the configured store, migrates the actions table and serves the REST API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, accessLog)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "intake.yaml", "path to Intake config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "log every request")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, accessLog bool) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return api.Start(ctx, api.StartOpts{
		Service:   action.NewService(store.NewActions(gormDB)),
		Port:      port,
		BasePath:  cfg.Server.BasePath,
		AccessLog: accessLog,
		Out:       cmd.OutOrStdout(),
	})
}
