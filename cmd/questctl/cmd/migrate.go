package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifedash/questlog/internal/config"
	"github.com/lifedash/questlog/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations for the goal service (uses DB_DRIVER, DB_CONNECTION)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, db.RunMigrations)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, db.MigrateDown)
		},
	})

	return cmd
}

func migrate(cmd *cobra.Command, run func(*sql.DB, string) error) error {
	cfg := config.Load()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	if err := run(database.DB, cfg.DBDriver); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migrations %s done (%s)\n", cmd.Name(), cfg.DBDriver)
	return nil
}
