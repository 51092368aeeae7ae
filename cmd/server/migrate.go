package main

import (
	"fmt"

	"github.com/kiranshivaraju/cancerscan/internal/config"
	"github.com/kiranshivaraju/cancerscan/internal/store"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var migrationsDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations for the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return migrate(cmd, cfg, migrationsDir)
		},
	}
	cmd.Flags().StringVar(&migrationsDir, "dir", defaultMigrationsDir, "directory of Postgres migration files")
	return cmd
}

func migrate(cmd *cobra.Command, cfg *config.Config, dir string) error {
	out := cmd.OutOrStdout()

	switch cfg.Store.Driver {
	case config.StorePostgres:
		if err := store.RunMigrations(cfg.Database.URL, dir); err != nil {
			return err
		}
		fmt.Fprintf(out, "postgres migrations from %s applied\n", dir)
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		if err := s.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "sqlite schema at %s is up to date\n", cfg.SQLite.Path)
	default:
		fmt.Fprintf(out, "store driver %s has no schema to migrate\n", cfg.Store.Driver)
	}
	return nil
}
