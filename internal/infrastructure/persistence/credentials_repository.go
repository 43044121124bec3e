package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wcorders/backend/internal/domain/syncing"
	"github.com/wcorders/backend/internal/infrastructure/persistence/models"
)

// GormCredentialsRepository implements CredentialsRepository using GORM
type GormCredentialsRepository struct {
	db *gorm.DB
}

// NewGormCredentialsRepository creates a new GormCredentialsRepository
func NewGormCredentialsRepository(db *gorm.DB) *GormCredentialsRepository {
	return &GormCredentialsRepository{db: db}
}

// FindByUser finds the credentials stored for a user
func (r *GormCredentialsRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*syncing.Credentials, error) {
	var model models.CredentialsModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncing.ErrNoCredentials
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a user's credentials
func (r *GormCredentialsRepository) Save(ctx context.Context, credentials *syncing.Credentials) error {
	model := models.CredentialsModelFromDomain(credentials)
	return r.db.WithContext(ctx).Save(model).Error
}

// ListUserIDs returns every user with stored credentials
func (r *GormCredentialsRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.CredentialsModel{}).
		Order("created_at ASC").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

// Ensure GormCredentialsRepository implements CredentialsRepository
var _ syncing.CredentialsRepository = (*GormCredentialsRepository)(nil)
