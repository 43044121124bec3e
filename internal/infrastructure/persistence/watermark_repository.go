package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wcorders/backend/internal/domain/syncing"
	"github.com/wcorders/backend/internal/infrastructure/persistence/models"
)

// GormWatermarkRepository implements WatermarkRepository using GORM
type GormWatermarkRepository struct {
	db *gorm.DB
}

// NewGormWatermarkRepository creates a new GormWatermarkRepository
func NewGormWatermarkRepository(db *gorm.DB) *GormWatermarkRepository {
	return &GormWatermarkRepository{db: db}
}

// GetOrCreate returns the user's watermark, creating an epoch-valued one on
// first use.
func (r *GormWatermarkRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*syncing.Watermark, error) {
	var model models.WatermarkModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	watermark := syncing.NewWatermark(userID)
	created := models.WatermarkModelFromDomain(watermark)
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return watermark, nil
}

// Save creates or updates a watermark
func (r *GormWatermarkRepository) Save(ctx context.Context, watermark *syncing.Watermark) error {
	model := models.WatermarkModelFromDomain(watermark)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormWatermarkRepository implements WatermarkRepository
var _ syncing.WatermarkRepository = (*GormWatermarkRepository)(nil)
