package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		migrate  bool
		logLevel string
	)
	flag.BoolVar(&migrate, "migrate", false, "Create missing tables before seeding")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.NewConsole(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.Open(&cfg.Database,
		persistence.WithGormLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if migrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	service := catalogapp.NewItemService(persistence.NewGormItemRepository(db.DB), log)
	items, err := service.Seed(ctx, catalogapp.SeedItemsInput{Items: starterCatalog})
	if err != nil {
		log.Fatal("Failed to seed catalog", zap.Error(err))
	}
	log.Info("Seeded storefront items", zap.Int("count", len(items)))
}
