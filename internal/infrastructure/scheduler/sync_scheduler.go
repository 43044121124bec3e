package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/syncing"
)

// SyncRunner executes one sync run for a user. The application-layer
// orchestrator satisfies this interface.
type SyncRunner interface {
	Run(ctx context.Context, userID uuid.UUID) (*syncing.RunSummary, error)
}

// SyncJob is one queued sync request.
type SyncJob struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Manual     bool
	EnqueuedAt time.Time
}

func newSyncJob(userID uuid.UUID, manual bool) *SyncJob {
	return &SyncJob{
		ID:         uuid.New(),
		UserID:     userID,
		Manual:     manual,
		EnqueuedAt: time.Now(),
	}
}

// SyncSchedulerConfig holds configuration for the sync scheduler
type SyncSchedulerConfig struct {
	// Workers is the number of concurrent sync runs
	Workers int
	// QueueSize is the pending job queue capacity
	QueueSize int
	// HistorySize is how many run summaries to keep in memory
	HistorySize int
	// Interval is how often the scheduler sweeps all users with credentials
	Interval time.Duration
	// JobTimeout is the maximum time a single run can take
	JobTimeout time.Duration
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Workers:     3,
		QueueSize:   100,
		HistorySize: 100,
		Interval:    15 * time.Minute,
		JobTimeout:  10 * time.Minute,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidConfig
	}
	if c.QueueSize <= 0 {
		return ErrInvalidConfig
	}
	if c.HistorySize <= 0 {
		return ErrInvalidConfig
	}
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SyncScheduler runs periodic and on-demand order sync jobs across users.
// Each user has at most one run in flight at a time.
type SyncScheduler struct {
	config          SyncSchedulerConfig
	runner          SyncRunner
	credentialsRepo syncing.CredentialsRepository
	logger          *zap.Logger

	jobs      chan *SyncJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	inflightMu sync.Mutex
	inflight   map[uuid.UUID]struct{}

	// Run summaries for monitoring (in-memory, limited size)
	historyMu sync.RWMutex
	history   []*syncing.RunSummary
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, runner SyncRunner, credentialsRepo syncing.CredentialsRepository, logger *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncScheduler{
		config:          config,
		runner:          runner,
		credentialsRepo: credentialsRepo,
		logger:          logger,
		jobs:            make(chan *SyncJob, config.QueueSize),
		inflight:        make(map[uuid.UUID]struct{}),
		history:         make([]*syncing.RunSummary, 0, config.HistorySize),
	}, nil
}

// Start starts the worker pool and the periodic sweep
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.wg.Add(1)
	go s.sweepLoop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("interval", s.config.Interval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	// Closing under the lock pairs with submit, which sends while holding
	// it; no send can land on the closed queue.
	close(s.jobs)
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger enqueues a manual sync run for a user. It fails fast when the
// user already has a run in flight or the queue is full.
func (s *SyncScheduler) Trigger(userID uuid.UUID) (*SyncJob, error) {
	job := newSyncJob(userID, true)
	if err := s.submit(job); err != nil {
		return nil, err
	}
	return job, nil
}

// submit places a job on the queue, reserving the user's in-flight slot
func (s *SyncScheduler) submit(job *SyncJob) error {
	if !s.reserve(job.UserID) {
		return syncing.ErrSyncAlreadyRunning
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		s.release(job.UserID)
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Sync job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("user_id", job.UserID.String()),
			zap.Bool("manual", job.Manual),
		)
		return nil
	default:
		s.release(job.UserID)
		return ErrJobQueueFull
	}
}

// reserve marks a user as having a run in flight. Returns false when the
// slot is already taken.
func (s *SyncScheduler) reserve(userID uuid.UUID) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, busy := s.inflight[userID]; busy {
		return false
	}
	s.inflight[userID] = struct{}{}
	return true
}

func (s *SyncScheduler) release(userID uuid.UUID) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, userID)
}

// sweepLoop periodically enqueues a run for every user with credentials
func (s *SyncScheduler) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep enqueues one run per configured user, skipping users already in flight
func (s *SyncScheduler) sweep(ctx context.Context) {
	userIDs, err := s.credentialsRepo.ListUserIDs(ctx)
	if err != nil {
		s.logger.Error("Sync sweep failed to list users", zap.Error(err))
		return
	}

	enqueued := 0
	for _, userID := range userIDs {
		err := s.submit(newSyncJob(userID, false))
		switch err {
		case nil:
			enqueued++
		case syncing.ErrSyncAlreadyRunning:
			// A run for this user is still going, catch it next sweep.
		case ErrJobQueueFull:
			s.logger.Warn("Sync queue full during sweep",
				zap.Int("enqueued", enqueued),
				zap.Int("total_users", len(userIDs)),
			)
			return
		default:
			return
		}
	}

	s.logger.Debug("Sync sweep completed",
		zap.Int("enqueued", enqueued),
		zap.Int("total_users", len(userIDs)),
	)
}

// worker processes jobs from the queue
func (s *SyncScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Sync worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Sync worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single run and records its summary
func (s *SyncScheduler) processJob(ctx context.Context, job *SyncJob, workerID int) {
	defer s.release(job.UserID)

	s.logger.Info("Processing sync job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("user_id", job.UserID.String()),
		zap.Bool("manual", job.Manual),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	summary, err := s.runner.Run(jobCtx, job.UserID)
	if summary != nil {
		s.addToHistory(summary)
	}
	if err != nil {
		s.logger.Error("Sync job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("user_id", job.UserID.String()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Sync job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("user_id", job.UserID.String()),
		zap.String("state", string(summary.State)),
		zap.Int("fetched", summary.Fetched),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
		zap.Bool("truncated", summary.Truncated),
	)
}

// addToHistory adds a completed run summary to history
func (s *SyncScheduler) addToHistory(summary *syncing.RunSummary) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*syncing.RunSummary{summary}, s.history...)

	if len(s.history) > s.config.HistorySize {
		s.history = s.history[:s.config.HistorySize]
	}
}

// History returns recent run summaries, newest first
func (s *SyncScheduler) History(limit int) []*syncing.RunSummary {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	result := make([]*syncing.RunSummary, limit)
	copy(result, s.history[:limit])
	return result
}

// HistoryForUser returns recent run summaries for one user, newest first
func (s *SyncScheduler) HistoryForUser(userID uuid.UUID, limit int) []*syncing.RunSummary {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 {
		limit = len(s.history)
	}

	result := make([]*syncing.RunSummary, 0, limit)
	for _, summary := range s.history {
		if summary.UserID == userID {
			result = append(result, summary)
			if len(result) >= limit {
				break
			}
		}
	}
	return result
}
