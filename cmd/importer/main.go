package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-backend/internal/bulk"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

func main() {
	kindFlag := flag.String("kind", "", "what the file holds: products or customers")
	file := flag.String("file", "", "path to the CSV file")
	flag.Parse()

	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "importer"})

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -kind products|customers -file path.csv")
		os.Exit(2)
	}
	kind, err := bulk.ParseKind(*kindFlag)
	if err != nil {
		logg.Error(ctx, "invalid import kind", err)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "importer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(ctx, cfg, logg, kind, *file); err != nil {
		logg.Error(ctx, "import failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, kind bulk.Kind, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	customerSvc, err := customers.NewService(customers.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return err
	}
	importer, err := bulk.NewImporter(catalogSvc, customerSvc, nil, logg)
	if err != nil {
		return err
	}

	report, err := importer.Import(ctx, kind, f)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if report.Failed > 0 {
		logg.Warn(logg.WithField(ctx, "failed", report.Failed), "some rows were rejected")
	}
	return nil
}
