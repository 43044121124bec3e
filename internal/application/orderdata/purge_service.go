package orderdata

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/syncing"
)

// PurgeService removes every imported record belonging to a user: orders
// with their child rows, customers, and payment gateways. The global
// catalog (products, categories) is left alone since other users' orders
// may reference it. The user's watermark is reset so the next sync
// re-imports from scratch.
type PurgeService struct {
	orderRepo     orderdata.OrderRepository
	customerRepo  orderdata.CustomerRepository
	gatewayRepo   orderdata.PaymentGatewayRepository
	watermarkRepo syncing.WatermarkRepository
	logger        *zap.Logger
}

// NewPurgeService creates a new PurgeService
func NewPurgeService(
	orderRepo orderdata.OrderRepository,
	customerRepo orderdata.CustomerRepository,
	gatewayRepo orderdata.PaymentGatewayRepository,
	watermarkRepo syncing.WatermarkRepository,
	logger *zap.Logger,
) *PurgeService {
	return &PurgeService{
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		gatewayRepo:   gatewayRepo,
		watermarkRepo: watermarkRepo,
		logger:        logger.Named("purge"),
	}
}

// PurgeUser deletes all imported data for the user and resets their
// watermark to the epoch.
func (s *PurgeService) PurgeUser(ctx context.Context, userID uuid.UUID) error {
	log := s.logger.With(zap.String("user_id", userID.String()))
	log.Info("Purging imported data")

	if err := s.orderRepo.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.customerRepo.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.gatewayRepo.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}

	watermark, err := s.watermarkRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	fresh := syncing.NewWatermark(userID)
	watermark.LastSyncTime = fresh.LastSyncTime
	if err := s.watermarkRepo.Save(ctx, watermark); err != nil {
		return err
	}

	log.Info("Purge complete")
	return nil
}
