package syncing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wcorders/backend/internal/domain/syncing"
	"github.com/wcorders/backend/internal/infrastructure/woocommerce"
)

// Orchestrator drives one sync run end to end: probe connectivity, paginate
// the remote order feed from the user's watermark, reconcile every fetched
// order, then commit the advanced watermark.
type Orchestrator struct {
	source          woocommerce.OrderSource
	credentialsRepo syncing.CredentialsRepository
	watermarkRepo   syncing.WatermarkRepository
	reconciler      *Reconciler
	pageSize        int
	maxPages        int
	logger          *zap.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	source woocommerce.OrderSource,
	credentialsRepo syncing.CredentialsRepository,
	watermarkRepo syncing.WatermarkRepository,
	reconciler *Reconciler,
	pageSize int,
	maxPages int,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:          source,
		credentialsRepo: credentialsRepo,
		watermarkRepo:   watermarkRepo,
		reconciler:      reconciler,
		pageSize:        pageSize,
		maxPages:        maxPages,
		logger:          logger.Named("orchestrator"),
	}
}

// Run executes a full sync for the user. The returned summary is populated
// even when the run fails; the error explains terminal failures.
//
// Per-order import failures do not abort the run: they are counted and the
// remaining orders still import. Only connectivity and missing credentials
// are fatal, and a fatal run leaves the watermark untouched so the next run
// retries the same window.
func (o *Orchestrator) Run(ctx context.Context, userID uuid.UUID) (*syncing.RunSummary, error) {
	summary := syncing.NewRunSummary(userID)
	log := o.logger.With(
		zap.String("user_id", userID.String()),
		zap.String("run_id", summary.RunID.String()),
	)

	creds, err := o.credentialsRepo.FindByUser(ctx, userID)
	if err != nil {
		summary.RecordFailure(err)
		summary.Finish(syncing.RunStateFailed)
		return summary, err
	}

	summary.State = syncing.RunStateProbing
	if err := o.source.Probe(ctx, creds); err != nil {
		log.Error("Connectivity probe failed", zap.Error(err))
		summary.RecordFailure(err)
		summary.Finish(syncing.RunStateFailed)
		return summary, err
	}

	watermark, err := o.watermarkRepo.GetOrCreate(ctx, userID)
	if err != nil {
		summary.RecordFailure(err)
		summary.Finish(syncing.RunStateFailed)
		return summary, err
	}

	runStart := time.Now().UTC()
	log.Info("Sync run started",
		zap.Time("watermark", watermark.LastSyncTime),
	)

	summary.State = syncing.RunStatePaginating
	orders, truncated := o.paginate(ctx, creds, watermark.LastSyncTime)
	summary.Fetched = len(orders)
	summary.Truncated = truncated

	summary.State = syncing.RunStateReconciling
	var maxModified time.Time
	for i := range orders {
		if modified := orders[i].DateModified.Time; modified.After(maxModified) {
			maxModified = modified
		}
		if err := o.reconciler.ImportOrder(ctx, userID, &orders[i]); err != nil {
			log.Warn("Order import failed",
				zap.Int64("order_id", orders[i].ID),
				zap.Error(err),
			)
			summary.RecordFailure(err)
			continue
		}
		summary.Imported++
	}

	summary.State = syncing.RunStateCommitting
	// When the page cap truncated the feed, only advance to the newest
	// modification actually fetched; the next run picks up the rest.
	if truncated {
		watermark.Advance(maxModified)
	} else {
		watermark.Advance(runStart)
	}
	if err := o.watermarkRepo.Save(ctx, watermark); err != nil {
		summary.RecordFailure(err)
		summary.Finish(syncing.RunStateFailed)
		return summary, err
	}

	summary.Finish(syncing.RunStateSucceeded)
	log.Info("Sync run finished",
		zap.Int("fetched", summary.Fetched),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", summary.Failed),
		zap.Bool("truncated", summary.Truncated),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// paginate walks the remote order feed page by page from the watermark.
// Pagination stops at the first empty page; a full final page under the
// page cap reports the feed as truncated.
func (o *Orchestrator) paginate(ctx context.Context, creds *syncing.Credentials, modifiedAfter time.Time) ([]woocommerce.Order, bool) {
	var all []woocommerce.Order
	for page := 1; page <= o.maxPages; page++ {
		batch := o.source.FetchOrders(ctx, creds, woocommerce.FetchOptions{
			Page:          page,
			PerPage:       o.pageSize,
			ModifiedAfter: modifiedAfter,
		})
		if len(batch) == 0 {
			return all, false
		}
		all = append(all, batch...)
	}
	return all, true
}
