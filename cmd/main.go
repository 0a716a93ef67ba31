// Package main provides the CLI entrypoint for the recipe book service.
// It wires subcommands (serve, migrate, jwt), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"recipebook/internal/config"
	"recipebook/pkg/logger"
	"recipebook/pkg/storage"
	"recipebook/pkg/storage/firestore"
	"recipebook/pkg/storage/instrumented"
	"recipebook/pkg/storage/memory"
	"recipebook/pkg/storage/postgres"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getStorage opens the configured backend and wraps it with tracing and call
// metrics. The returned function releases the backend.
func getStorage(ctx context.Context, cfg *config.Config, tp trace.TracerProvider, mp metric.MeterProvider) (storage.RecipeRepository, func()) {
	var strg storage.Storage
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		strg, _ = getPostgres(ctx, cfg)
	case config.BackendMemory:
		logger.Warn(ctx, "using in-memory storage, recipes are lost on exit")
		strg = memory.New()
	default:
		fs, err := firestore.New(ctx, firestore.Options{
			ProjectID:       cfg.Firestore.ProjectID,
			CredentialsFile: cfg.Firestore.CredentialsFile,
			Collection:      cfg.Firestore.Collection,
			NamesCollection: cfg.Firestore.NamesCollection,
		})
		if err != nil {
			logger.Fatal(ctx, "could not create firestore storage", zap.Error(err))
		}
		strg = fs
	}

	repo, err := instrumented.New(strg, cfg.Storage.Backend, tp, mp)
	if err != nil {
		_ = strg.Close()
		logger.Fatal(ctx, "could not instrument storage", zap.Error(err))
	}

	return repo, func() {
		logger.Info(ctx, "closing storage...", zap.String("backend", cfg.Storage.Backend))
		if err := strg.Close(); err != nil {
			logger.Warn(ctx, "could not close storage", zap.Error(err))
		}
	}
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "recipebook",
		Short: "Recipe book API",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	if err := logger.SetupWithLevel(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not setup logger: ", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		JWTCommand(cfg),
	)

	err = rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
