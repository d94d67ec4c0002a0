package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"lireddit-server/internal/app"
	"lireddit-server/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server exposing the GraphQL API on /graphql.
Pending migrations are applied first unless database.auto_migrate is off.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(
				cmd.Context(),
				os.Interrupt,
				syscall.SIGTERM,
			)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				logger.LogError("failed to initialize app", err, nil)
				return err
			}

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- application.Run()
			}()

			logger.Info("lireddit started", map[string]any{
				"port": cfg.Server.Port,
			})

			select {
			case <-ctx.Done(): // wait for Ctrl+C
				logger.Info("shutdown signal received", nil)
			case err := <-serveErr:
				if err != nil {
					logger.LogError("http server failed", err, nil)
					return oops.Code("HTTP_SERVER_FAILED").Wrap(err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				shutdownTimeout,
			)
			defer cancel()

			if err := application.Shutdown(shutdownCtx); err != nil {
				logger.LogError("graceful shutdown failed", err, nil)
				return err
			}

			logger.Info("lireddit stopped cleanly", nil)
			return nil
		},
	}
}
