package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/syncing"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type stubRunner struct {
	mu      sync.Mutex
	runs    int32
	byUser  map[uuid.UUID]int
	block   chan struct{}
	failure error
}

func newStubRunner() *stubRunner {
	return &stubRunner{byUser: make(map[uuid.UUID]int)}
}

func (r *stubRunner) Run(ctx context.Context, userID uuid.UUID) (*syncing.RunSummary, error) {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	atomic.AddInt32(&r.runs, 1)
	r.mu.Lock()
	r.byUser[userID]++
	r.mu.Unlock()

	summary := syncing.NewRunSummary(userID)
	if r.failure != nil {
		summary.Finish(syncing.RunStateFailed)
		return summary, r.failure
	}
	summary.Fetched = 2
	summary.Imported = 2
	summary.Finish(syncing.RunStateSucceeded)
	return summary, nil
}

type stubCredentialsRepo struct {
	userIDs []uuid.UUID
}

func (r *stubCredentialsRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*syncing.Credentials, error) {
	return nil, syncing.ErrNoCredentials
}

func (r *stubCredentialsRepo) Save(ctx context.Context, credentials *syncing.Credentials) error {
	return nil
}

func (r *stubCredentialsRepo) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return r.userIDs, nil
}

func testConfig() SyncSchedulerConfig {
	cfg := DefaultSyncSchedulerConfig()
	cfg.Workers = 2
	cfg.Interval = time.Hour
	cfg.JobTimeout = 5 * time.Second
	return cfg
}

func startScheduler(t *testing.T, cfg SyncSchedulerConfig, runner SyncRunner, creds syncing.CredentialsRepository) *SyncScheduler {
	t.Helper()

	s, err := NewSyncScheduler(cfg, runner, creds, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func waitForRuns(t *testing.T, runner *stubRunner, want int32) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&runner.runs) >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d runs, got %d", want, atomic.LoadInt32(&runner.runs))
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestSyncSchedulerConfig_Validate(t *testing.T) {
	cfg := DefaultSyncSchedulerConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Workers = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = cfg
	bad.QueueSize = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = cfg
	bad.Interval = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

// ---------------------------------------------------------------------------
// Scheduler Tests
// ---------------------------------------------------------------------------

func TestSyncScheduler_TriggerRunsJob(t *testing.T) {
	runner := newStubRunner()
	s := startScheduler(t, testConfig(), runner, &stubCredentialsRepo{})

	userID := uuid.New()
	job, err := s.Trigger(userID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.True(t, job.Manual)

	waitForRuns(t, runner, 1)

	history := s.HistoryForUser(userID, 10)
	require.Len(t, history, 1)
	assert.Equal(t, syncing.RunStateSucceeded, history[0].State)
	assert.Equal(t, 2, history[0].Imported)
}

func TestSyncScheduler_TriggerStoppedScheduler(t *testing.T) {
	s, err := NewSyncScheduler(testConfig(), newStubRunner(), &stubCredentialsRepo{}, newTestLogger())
	require.NoError(t, err)

	_, err = s.Trigger(uuid.New())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestSyncScheduler_SingleFlightPerUser(t *testing.T) {
	runner := newStubRunner()
	runner.block = make(chan struct{})
	s := startScheduler(t, testConfig(), runner, &stubCredentialsRepo{})

	userID := uuid.New()
	_, err := s.Trigger(userID)
	require.NoError(t, err)

	// Second trigger for the same user while the first is still running.
	_, err = s.Trigger(userID)
	assert.ErrorIs(t, err, syncing.ErrSyncAlreadyRunning)

	// A different user is unaffected.
	_, err = s.Trigger(uuid.New())
	assert.NoError(t, err)

	close(runner.block)
	waitForRuns(t, runner, 2)

	// Slot is freed after the run completes.
	deadline := time.Now().Add(3 * time.Second)
	for {
		_, err = s.Trigger(userID)
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.NoError(t, err)
}

func TestSyncScheduler_SweepEnqueuesAllUsers(t *testing.T) {
	runner := newStubRunner()
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	cfg := testConfig()
	cfg.Interval = 50 * time.Millisecond
	s := startScheduler(t, cfg, runner, &stubCredentialsRepo{userIDs: users})

	waitForRuns(t, runner, 3)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	for _, userID := range users {
		assert.GreaterOrEqual(t, runner.byUser[userID], 1)
	}

	_ = s
}

func TestSyncScheduler_FailedRunStillRecorded(t *testing.T) {
	runner := newStubRunner()
	runner.failure = syncing.ErrConnectivity
	s := startScheduler(t, testConfig(), runner, &stubCredentialsRepo{})

	userID := uuid.New()
	_, err := s.Trigger(userID)
	require.NoError(t, err)

	waitForRuns(t, runner, 1)

	history := s.HistoryForUser(userID, 10)
	require.Len(t, history, 1)
	assert.Equal(t, syncing.RunStateFailed, history[0].State)
}

func TestSyncScheduler_HistoryBounded(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 3
	s, err := NewSyncScheduler(cfg, newStubRunner(), &stubCredentialsRepo{}, newTestLogger())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		summary := syncing.NewRunSummary(uuid.New())
		summary.Finish(syncing.RunStateSucceeded)
		s.addToHistory(summary)
	}

	assert.Len(t, s.History(0), 3)
	assert.Len(t, s.History(2), 2)
}

func TestSyncScheduler_StopDuringTrigger(t *testing.T) {
	runner := newStubRunner()
	s, err := NewSyncScheduler(testConfig(), runner, &stubCredentialsRepo{}, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	// Triggers racing Stop must either enqueue or fail cleanly, never
	// panic on the closed queue.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := s.Trigger(uuid.New())
				if err != nil {
					assert.True(t, errors.Is(err, ErrSchedulerNotRunning) || errors.Is(err, ErrJobQueueFull))
					return
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	wg.Wait()

	_, err = s.Trigger(uuid.New())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}
