package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/marketdesk"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := marketdesk.LoadConfig(configPath)
			if err != nil {
				return err
			}
			log, err := marketdesk.NewLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			app := marketdesk.New(cfg, marketdesk.WithLogger(log))
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := app.Shutdown(sctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("shutdown", zap.Error(err))
				return err
			}
			return <-errc
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (environment variables override it)")
	return cmd
}
