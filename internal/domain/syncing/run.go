package syncing

import (
	"time"

	"github.com/google/uuid"
)

// RunState is a stage in a sync run's lifecycle.
type RunState string

const (
	RunStateIdle        RunState = "IDLE"
	RunStateProbing     RunState = "PROBING_CONNECTIVITY"
	RunStatePaginating  RunState = "PAGINATING"
	RunStateReconciling RunState = "RECONCILING"
	RunStateCommitting  RunState = "COMMITTING"
	RunStateSucceeded   RunState = "SUCCEEDED"
	RunStateFailed      RunState = "FAILED"
)

// Terminal reports whether the state ends a run.
func (s RunState) Terminal() bool {
	return s == RunStateSucceeded || s == RunStateFailed
}

// RunSummary is the user-visible result of one sync run.
type RunSummary struct {
	RunID      uuid.UUID `json:"run_id"`
	UserID     uuid.UUID `json:"user_id"`
	State      RunState  `json:"state"`
	Fetched    int       `json:"fetched"`
	Imported   int       `json:"imported"`
	Failed     int       `json:"failed"`
	Truncated  bool      `json:"truncated"`
	FirstError string    `json:"first_error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Elapsed    time.Duration `json:"elapsed"`
}

// NewRunSummary starts a summary for a fresh run.
func NewRunSummary(userID uuid.UUID) *RunSummary {
	return &RunSummary{
		RunID:     uuid.New(),
		UserID:    userID,
		State:     RunStateIdle,
		StartedAt: time.Now(),
	}
}

// RecordFailure counts a per-order import failure, keeping the first error
// detail for the summary.
func (s *RunSummary) RecordFailure(err error) {
	s.Failed++
	if s.FirstError == "" && err != nil {
		s.FirstError = err.Error()
	}
}

// Finish moves the summary to a terminal state and stamps timing.
func (s *RunSummary) Finish(state RunState) {
	s.State = state
	s.FinishedAt = time.Now()
	s.Elapsed = s.FinishedAt.Sub(s.StartedAt)
}
