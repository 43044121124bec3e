package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	identityapp "github.com/wcorders/backend/internal/application/identity"
	orderdataapp "github.com/wcorders/backend/internal/application/orderdata"
	syncapp "github.com/wcorders/backend/internal/application/syncing"
	"github.com/wcorders/backend/internal/infrastructure/auth"
	"github.com/wcorders/backend/internal/infrastructure/config"
	"github.com/wcorders/backend/internal/infrastructure/logger"
	"github.com/wcorders/backend/internal/infrastructure/persistence"
	"github.com/wcorders/backend/internal/infrastructure/scheduler"
	"github.com/wcorders/backend/internal/infrastructure/woocommerce"
	"github.com/wcorders/backend/internal/interfaces/http/handler"
	"github.com/wcorders/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := persistence.Migrate(db.DB); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	gatewayRepo := persistence.NewGormPaymentGatewayRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	credentialsRepo := persistence.NewGormCredentialsRepository(db.DB)
	watermarkRepo := persistence.NewGormWatermarkRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	queryService := orderdataapp.NewQueryService(orderRepo, customerRepo, gatewayRepo, productRepo, categoryRepo)
	purgeService := orderdataapp.NewPurgeService(orderRepo, customerRepo, gatewayRepo, watermarkRepo, log)
	credentialsService := syncapp.NewCredentialsService(credentialsRepo, log)

	// Sync pipeline
	wcClient := woocommerce.NewClient(cfg.Sync.RequestTimeout, cfg.Sync.ProbeEndpoint, log)
	reconciler := syncapp.NewReconciler(orderRepo, customerRepo, gatewayRepo, productRepo, log)
	orchestrator := syncapp.NewOrchestrator(wcClient, credentialsRepo, watermarkRepo, reconciler, cfg.Sync.PageSize, cfg.Sync.MaxPages, log)

	schedCfg := scheduler.DefaultSyncSchedulerConfig()
	schedCfg.Workers = cfg.Sync.Workers
	schedCfg.QueueSize = cfg.Sync.QueueSize
	schedCfg.HistorySize = cfg.Sync.HistorySize
	schedCfg.Interval = cfg.Sync.Interval
	syncScheduler, err := scheduler.NewSyncScheduler(schedCfg, orchestrator, credentialsRepo, log)
	if err != nil {
		log.Fatal("Failed to create sync scheduler", zap.Error(err))
	}
	if err := syncScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start sync scheduler", zap.Error(err))
	}

	engine := router.New(router.Config{
		Logger:      log,
		JWTService:  jwtService,
		Environment: cfg.App.Env,
		System:      handler.NewSystemHandler(db, version),
		Auth:        handler.NewAuthHandler(authService),
		Store:       handler.NewStoreHandler(credentialsService),
		Sync:        handler.NewSyncHandler(syncScheduler, watermarkRepo),
		Orders:      handler.NewOrderHandler(queryService, purgeService),
		Customers:   handler.NewCustomerHandler(queryService),
		Catalog:     handler.NewCatalogHandler(queryService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := syncScheduler.Stop(ctx); err != nil {
		log.Error("Sync scheduler forced to stop", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
