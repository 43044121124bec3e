package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/infrastructure/config"
	"github.com/wcorders/backend/internal/infrastructure/logger"
	"github.com/wcorders/backend/internal/infrastructure/persistence"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := persistence.Migrate(db.DB); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migration completed")
}
