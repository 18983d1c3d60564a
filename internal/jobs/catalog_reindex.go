// File: internal/jobs/catalog_reindex.go
package jobs

import (
	"context"
	"sync"
	"time"

	"pagination_backend/internal/catalog"
	"pagination_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reindexRunTimeout = 10 * time.Minute

// Reindexer is the part of catalog.Service the job drives.
type Reindexer interface {
	Reindex(ctx context.Context, batchSize int) (catalog.ReindexResult, error)
}

// CatalogReindexJob periodically copies the category table into the search index.
type CatalogReindexJob struct {
	reindexer     Reindexer
	logger        *zap.Logger
	schedule      string
	batchSize     int
	cronScheduler *cron.Cron

	mu      sync.Mutex
	started bool
}

// NewCatalogReindexJob creates a new CatalogReindexJob. Runs are skipped
// while a previous run is still in progress.
func NewCatalogReindexJob(service catalog.Service, logger *zap.Logger, cfg *config.Config) *CatalogReindexJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	return &CatalogReindexJob{
		reindexer:     service,
		logger:        logger.Named("CatalogReindexJob"),
		schedule:      cfg.CatalogReindexSchedule,
		batchSize:     cfg.CatalogReindexBatchSize,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job. An empty schedule
// disables the job.
func (j *CatalogReindexJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Warn("Catalog reindex schedule not defined (CATALOG_REINDEX_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.RunOnce)
	if err != nil {
		j.logger.Error("Failed to schedule catalog reindex job", zap.String("spec", j.schedule), zap.Error(err))
		return err
	}

	j.mu.Lock()
	j.started = true
	j.mu.Unlock()

	j.logger.Info("Catalog reindex job scheduled", zap.String("spec", j.schedule), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// RunOnce performs a single reindex run.
func (j *CatalogReindexJob) RunOnce() {
	j.logger.Info("Starting catalog reindex run...")
	ctx, cancel := context.WithTimeout(context.Background(), reindexRunTimeout)
	defer cancel()

	result, err := j.reindexer.Reindex(ctx, j.batchSize)
	if err != nil {
		j.logger.Error("Catalog reindex run failed", zap.Error(err))
		return
	}
	j.logger.Info("Catalog reindex run completed",
		zap.Int("indexed", result.Indexed),
		zap.Int("failed", result.Failed),
		zap.Int("batches", result.Batches),
	)
}

// Stop gracefully stops the cron scheduler.
func (j *CatalogReindexJob) Stop() {
	j.mu.Lock()
	started := j.started
	j.started = false
	j.mu.Unlock()
	if !started {
		return
	}

	j.logger.Info("Stopping catalog reindex scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Catalog reindex scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Catalog reindex scheduler stop timed out.")
	}
}
