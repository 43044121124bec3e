package syncing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wcorders/backend/internal/domain/shared"
)

// Credentials holds one user's WooCommerce API access: the store base URL
// and a consumer key/secret pair. One row per user; created by the user at
// setup time and never written by the sync itself.
type Credentials struct {
	shared.BaseEntity
	UserID         uuid.UUID
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string
}

// NewCredentials creates credentials for a user, normalizing the store URL.
func NewCredentials(userID uuid.UUID, storeURL, consumerKey, consumerSecret string) *Credentials {
	return &Credentials{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		StoreURL:       strings.TrimRight(storeURL, "/"),
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
	}
}

// Validate checks that all connection fields are present.
func (c *Credentials) Validate() error {
	if c.StoreURL == "" {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Store URL is required")
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Consumer key and secret are required")
	}
	return nil
}
