package syncing

import "errors"

// Sync error taxonomy. Connectivity failures are fatal to a run and leave
// the watermark untouched; everything below them degrades gracefully.
var (
	ErrConnectivity       = errors.New("sync: connectivity probe failed")
	ErrNoCredentials      = errors.New("sync: no store credentials configured for user")
	ErrSyncAlreadyRunning = errors.New("sync: a run is already in flight for this user")
)
