package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wcorders/backend/internal/domain/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/infrastructure/persistence/models"
)

// GormPaymentGatewayRepository implements PaymentGatewayRepository using GORM
type GormPaymentGatewayRepository struct {
	db *gorm.DB
}

// NewGormPaymentGatewayRepository creates a new GormPaymentGatewayRepository
func NewGormPaymentGatewayRepository(db *gorm.DB) *GormPaymentGatewayRepository {
	return &GormPaymentGatewayRepository{db: db}
}

// FindByID finds a payment gateway by its ID
func (r *GormPaymentGatewayRepository) FindByID(ctx context.Context, id uuid.UUID) (*orderdata.PaymentGateway, error) {
	var model models.PaymentGatewayModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGatewayID finds a payment gateway by its remote gateway id within a user's data set
func (r *GormPaymentGatewayRepository) FindByGatewayID(ctx context.Context, userID uuid.UUID, gatewayID string) (*orderdata.PaymentGateway, error) {
	var model models.PaymentGatewayModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND gateway_id = ?", userID, gatewayID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds all payment gateways belonging to a user
func (r *GormPaymentGatewayRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]orderdata.PaymentGateway, error) {
	var gatewayModels []models.PaymentGatewayModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.PaymentGatewayModel{}).Where("user_id = ?", userID),
		filter,
		"gateway_id ASC",
	)

	if err := query.Find(&gatewayModels).Error; err != nil {
		return nil, err
	}

	gateways := make([]orderdata.PaymentGateway, len(gatewayModels))
	for i, model := range gatewayModels {
		gateways[i] = *model.ToDomain()
	}
	return gateways, nil
}

// CountForUser counts payment gateways belonging to a user
func (r *GormPaymentGatewayRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentGatewayModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payment gateway
func (r *GormPaymentGatewayRepository) Save(ctx context.Context, gateway *orderdata.PaymentGateway) error {
	model := models.PaymentGatewayModelFromDomain(gateway)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteAllForUser removes every payment gateway belonging to a user
func (r *GormPaymentGatewayRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.PaymentGatewayModel{}, "user_id = ?", userID).Error
}

// Ensure GormPaymentGatewayRepository implements PaymentGatewayRepository
var _ orderdata.PaymentGatewayRepository = (*GormPaymentGatewayRepository)(nil)
