package syncing

import (
	"time"

	"github.com/google/uuid"

	"github.com/wcorders/backend/internal/domain/shared"
)

// Watermark marks the upper bound of already-synced data for one user.
// LastSyncTime is the lower-bound filter (`modified_after`) of the next
// run. It is advanced exactly once per successful run, by the orchestrator
// alone, to the time captured at run start rather than run completion so
// that orders modified mid-run are not skipped.
type Watermark struct {
	shared.BaseEntity
	UserID       uuid.UUID
	LastSyncTime time.Time
}

// NewWatermark creates a watermark at the epoch so the first run imports
// everything.
func NewWatermark(userID uuid.UUID) *Watermark {
	return &Watermark{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		LastSyncTime: time.Unix(0, 0).UTC(),
	}
}

// Advance moves the watermark forward. Calls that would move it backwards
// are ignored.
func (w *Watermark) Advance(to time.Time) {
	if to.After(w.LastSyncTime) {
		w.LastSyncTime = to
	}
}
