package main

import (
	"fmt"
	"os"

	"facturapp/internal/config"
	"facturapp/internal/infra"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "facturapp",
	Short: "Herramientas de administración de facturapp",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		infra.SetupLogger(cfg.Env, cfg.LogLevel)
		appConfig = cfg
		return nil
	},
	SilenceUsage: true,
}

// appConfig is loaded before every subcommand runs.
var appConfig *config.Config

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	db, err := infra.NewDatabase(appConfig.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}
