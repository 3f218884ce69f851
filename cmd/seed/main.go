package main

import (
	"os"

	"github.com/oggyb/mysticmatch/internal/config"
	"github.com/oggyb/mysticmatch/internal/db"
	"github.com/oggyb/mysticmatch/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger.InitFromConfig(cfg)

	// NewDB migrates the schema before we seed
	database, err := db.NewDB(cfg)
	if err != nil {
		logger.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	if err := db.SeedTestData(database); err != nil {
		logger.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	logger.Info("seeding completed")
}
