package main

import (
	"context"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	root "recipebook"
	"recipebook/internal/config"
	"recipebook/pkg/logger"
)

// migrateCommand constructs the 'migrate' subcommand that applies the
// PostgreSQL schema migrations to the latest version using goose.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the PostgreSQL database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if cfg.Storage.Backend != config.BackendPostgres {
				logger.Warn(ctx, "storage backend has no schema to migrate",
					zap.String("backend", cfg.Storage.Backend))

				return
			}

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			goose.SetBaseFS(root.Migrations)

			if err := goose.SetDialect("postgres"); err != nil {
				logger.Fatal(ctx, "could not set goose dialect to postgres", zap.Error(err))
			}
			if err := goose.UpContext(ctx, strg.DB, "migrations"); err != nil {
				logger.Fatal(ctx, "could not migrate pgsql", zap.Error(err))
			}

			version, err := goose.GetDBVersionContext(ctx, strg.DB)
			if err != nil {
				logger.Warn(ctx, "could not read schema version", zap.Error(err))

				return
			}
			logger.Info(ctx, "database migrated", zap.Int64("version", version))
		},
	}

	return cmd
}
