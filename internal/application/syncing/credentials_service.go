package syncing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/syncing"
)

// CredentialsService manages a user's store connection settings.
type CredentialsService struct {
	credentialsRepo syncing.CredentialsRepository
	logger          *zap.Logger
}

// NewCredentialsService creates a new CredentialsService
func NewCredentialsService(credentialsRepo syncing.CredentialsRepository, logger *zap.Logger) *CredentialsService {
	return &CredentialsService{
		credentialsRepo: credentialsRepo,
		logger:          logger.Named("credentials"),
	}
}

// Get returns the user's stored credentials.
func (s *CredentialsService) Get(ctx context.Context, userID uuid.UUID) (*syncing.Credentials, error) {
	return s.credentialsRepo.FindByUser(ctx, userID)
}

// Upsert creates or replaces the user's store credentials. Each user has
// exactly one set.
func (s *CredentialsService) Upsert(ctx context.Context, userID uuid.UUID, storeURL, consumerKey, consumerSecret string) (*syncing.Credentials, error) {
	creds, err := s.credentialsRepo.FindByUser(ctx, userID)
	switch {
	case err == nil:
		updated := syncing.NewCredentials(userID, storeURL, consumerKey, consumerSecret)
		creds.StoreURL = updated.StoreURL
		creds.ConsumerKey = updated.ConsumerKey
		creds.ConsumerSecret = updated.ConsumerSecret
	case errors.Is(err, syncing.ErrNoCredentials):
		creds = syncing.NewCredentials(userID, storeURL, consumerKey, consumerSecret)
	default:
		return nil, err
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if err := s.credentialsRepo.Save(ctx, creds); err != nil {
		return nil, err
	}

	s.logger.Info("Store credentials saved",
		zap.String("user_id", userID.String()),
		zap.String("store_url", creds.StoreURL),
	)
	return creds, nil
}
