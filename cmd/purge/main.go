package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orderdataapp "github.com/wcorders/backend/internal/application/orderdata"
	"github.com/wcorders/backend/internal/infrastructure/config"
	"github.com/wcorders/backend/internal/infrastructure/logger"
	"github.com/wcorders/backend/internal/infrastructure/persistence"
)

// Deletes all imported store data for one user and resets their sync
// watermark. The shared product catalog is left untouched.
func main() {
	var (
		userIDStr string
		yes       bool
	)
	flag.StringVar(&userIDStr, "user", "", "User ID to purge (required)")
	flag.BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	flag.Parse()

	if userIDStr == "" {
		fmt.Fprintln(os.Stderr, "usage: purge -user <uuid> [-yes]")
		os.Exit(2)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid user ID: %v\n", err)
		os.Exit(2)
	}

	if !yes {
		fmt.Printf("This deletes all imported orders, customers and gateways for user %s. Continue? [y/N] ", userID)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted")
			os.Exit(0)
		}
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
	watermarkRepo := persistence.NewGormWatermarkRepository(db.DB)

	purgeService := orderdataapp.NewPurgeService(orderRepo, customerRepo, gatewayRepo, watermarkRepo, log)

	if err := purgeService.PurgeUser(context.Background(), userID); err != nil {
		log.Fatal("Purge failed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	log.Info("Purge completed", zap.String("user_id", userID.String()))
}
