package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	syncapp "github.com/wcorders/backend/internal/application/syncing"
	"github.com/wcorders/backend/internal/infrastructure/config"
	"github.com/wcorders/backend/internal/infrastructure/logger"
	"github.com/wcorders/backend/internal/infrastructure/persistence"
	"github.com/wcorders/backend/internal/infrastructure/woocommerce"
)

// One-shot sync run for a single user, for cron jobs and debugging.
func main() {
	var (
		userIDStr string
		timeout   time.Duration
	)
	flag.StringVar(&userIDStr, "user", "", "User ID to sync (required)")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "Overall run timeout")
	flag.Parse()

	if userIDStr == "" {
		fmt.Fprintln(os.Stderr, "usage: sync -user <uuid> [-timeout 10m]")
		os.Exit(2)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid user ID: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
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

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	orderRepo := persistence.NewGormOrderRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	gatewayRepo := persistence.NewGormPaymentGatewayRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	credentialsRepo := persistence.NewGormCredentialsRepository(db.DB)
	watermarkRepo := persistence.NewGormWatermarkRepository(db.DB)

	wcClient := woocommerce.NewClient(cfg.Sync.RequestTimeout, cfg.Sync.ProbeEndpoint, log)
	reconciler := syncapp.NewReconciler(orderRepo, customerRepo, gatewayRepo, productRepo, log)
	orchestrator := syncapp.NewOrchestrator(wcClient, credentialsRepo, watermarkRepo, reconciler, cfg.Sync.PageSize, cfg.Sync.MaxPages, log)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	summary, err := orchestrator.Run(ctx, userID)
	if err != nil {
		log.Error("Sync run failed", zap.String("user_id", userID.String()), zap.Error(err))
		os.Exit(1)
	}

	log.Info("Sync run finished",
		zap.String("user_id", userID.String()),
		zap.String("state", string(summary.State)),
		zap.Int("fetched", summary.Fetched),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
		zap.Bool("truncated", summary.Truncated),
		zap.Duration("elapsed", summary.Elapsed),
	)
}
