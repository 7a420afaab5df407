package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/jai/internal/store/sqlstore"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Manage the SQL schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}
		return runMigrate(cmd.Context(), action)
	},
}

func runMigrate(ctx context.Context, action string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	d, err := sqlstore.ParseDialect(cfg.Store.Driver)
	if err != nil {
		return fmt.Errorf("migrate needs a SQL store driver: %w", err)
	}
	db, err := sqlstore.Open(ctx, d, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	switch action {
	case "down":
		return sqlstore.MigrateDown(ctx, db, d, log)
	case "version":
		v, err := sqlstore.MigrationVersion(ctx, db, d, log)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	default:
		return sqlstore.Migrate(ctx, db, d, log)
	}
}
