package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/infrastructure/postgres"
)

const defaultMigrationsPath = "internal/infrastructure/postgres/migrations"

// Swapped in tests.
var (
	migrateUp   = postgres.RunMigrations
	migrateDown = postgres.RunMigrationsDown
)

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", envOr("DATABASE_URL", ""), "PostgreSQL URL (defaults to $DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", defaultMigrationsPath), "Migrations directory")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireFlag("database-url", databaseURL); err != nil {
					return err
				}
				return migrateUp(databaseURL, path, cliLogger(cmd))
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireFlag("database-url", databaseURL); err != nil {
					return err
				}
				return migrateDown(databaseURL, path, cliLogger(cmd))
			},
		},
	)

	return cmd
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
