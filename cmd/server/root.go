package main

import (
	"github.com/spf13/cobra"

	"lireddit-server/internal/config"
	"lireddit-server/internal/logger"
)

// NewRootCmd creates the root command of the lireddit CLI.
func NewRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "lireddit",
		Short:        "lireddit GraphQL API server",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd(&configFile))
	cmd.AddCommand(NewMigrateCmd(&configFile))

	return cmd
}

// loadConfig resolves the configuration for cmd and initializes logging
// from it.
func loadConfig(cmd *cobra.Command, configFile string) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := logger.Init(cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr()); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
