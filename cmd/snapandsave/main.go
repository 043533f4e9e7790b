package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/joshdoucet/snapandsave/internal/config"
	"github.com/joshdoucet/snapandsave/internal/db"
	"github.com/joshdoucet/snapandsave/internal/logging"
	"github.com/joshdoucet/snapandsave/internal/notify"
	"github.com/joshdoucet/snapandsave/internal/service"
	"github.com/joshdoucet/snapandsave/internal/store"
	"github.com/joshdoucet/snapandsave/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	notifier := notify.New()
	items := store.NewItemStore(database, notifier)

	// Initialize the total inventory value before serving, so no request ever
	// observes an uninitialized aggregate.
	if err := items.Recompute(context.Background()); err != nil {
		logger.Error("failed to compute total inventory value", "error", err)
		return
	}
	total, _ := items.Total().Value()
	logger.Info("inventory loaded", "total_value", total)

	inventoryService := service.NewInventoryService(items, items.Total(), logger)
	server := web.NewServer(inventoryService, notifier, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
