package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchorhq/anchor/internal/config"
	"github.com/anchorhq/anchor/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			database, err := db.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("applying migrations: %w", err)
			}
			defer database.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", cfg.DBPath)
			return nil
		},
	}
}
