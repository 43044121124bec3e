package syncing

import (
	"context"

	"github.com/google/uuid"
)

// CredentialsRepository persists per-user store credentials.
type CredentialsRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*Credentials, error)
	Save(ctx context.Context, credentials *Credentials) error
	// ListUserIDs returns every user with stored credentials, for the
	// scheduler to iterate.
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// WatermarkRepository persists per-user sync watermarks.
type WatermarkRepository interface {
	// GetOrCreate returns the user's watermark, creating an epoch-valued
	// one on first use.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Watermark, error)
	Save(ctx context.Context, watermark *Watermark) error
}
