package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense/internal/application/port"
)

// RetentionConfig holds configuration for the export retention worker
type RetentionConfig struct {
	// Retention is how long an export file is kept
	Retention     time.Duration
	SweepInterval time.Duration
}

// DefaultRetentionConfig returns default configuration
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Retention:     7 * 24 * time.Hour,
		SweepInterval: time.Hour,
	}
}

// RetentionStats reports what the worker has removed so far
type RetentionStats struct {
	Sweeps    int
	Removed   int
	Failed    int
	LastSweep time.Time
	LastError string
}

// ExportRetentionWorker deletes generated export files and their archive entries once
// they are older than the retention period
type ExportRetentionWorker struct {
	config  RetentionConfig
	archive port.ExportArchive
	storage port.FileStorage
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	isRunning bool
	stats     RetentionStats
}

// NewExportRetentionWorker creates a new retention worker
func NewExportRetentionWorker(config RetentionConfig, archive port.ExportArchive, storage port.FileStorage, logger *zap.Logger) *ExportRetentionWorker {
	return &ExportRetentionWorker{
		config:  config,
		archive: archive,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Name returns the worker name for identification
func (w *ExportRetentionWorker) Name() string {
	return "ExportRetentionWorker"
}

// Start sweeps once, then every SweepInterval until ctx is cancelled or Stop is called
func (w *ExportRetentionWorker) Start(ctx context.Context) error {
	if w.config.SweepInterval <= 0 || w.config.Retention <= 0 {
		return fmt.Errorf("invalid retention config: retention=%s interval=%s", w.config.Retention, w.config.SweepInterval)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isRunning {
		return fmt.Errorf("retention worker already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.isRunning = true

	w.logger.Info("ExportRetentionWorker started",
		zap.Duration("retention", w.config.Retention),
		zap.Duration("sweep_interval", w.config.SweepInterval))

	go w.loop(runCtx, w.done)
	return nil
}

// Stop cancels the loop and waits for a running sweep to finish
func (w *ExportRetentionWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	stats := w.Stats()
	w.logger.Info("ExportRetentionWorker stopped",
		zap.Int("sweeps", stats.Sweeps),
		zap.Int("removed", stats.Removed),
		zap.Int("failed", stats.Failed))
	return nil
}

// Stats returns a snapshot of the worker's counters
func (w *ExportRetentionWorker) Stats() RetentionStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *ExportRetentionWorker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	for {
		if _, err := w.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("Export retention sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep removes every export created before now minus the retention period and returns
// how many were removed. Failures on single exports are counted and skipped.
func (w *ExportRetentionWorker) Sweep(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-w.config.Retention)

	expired, err := w.archive.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		w.record(0, 0, err)
		return 0, fmt.Errorf("failed to list expired exports: %w", err)
	}

	removed, failed := 0, 0
	for _, rec := range expired {
		if err := ctx.Err(); err != nil {
			w.record(removed, failed, err)
			return removed, err
		}

		if err := w.storage.Delete(ctx, rec.Path); err != nil {
			w.logger.Warn("Failed to delete expired export file",
				zap.String("export_id", rec.ID),
				zap.String("path", rec.Path),
				zap.Error(err))
			failed++
			continue
		}
		if err := w.archive.Delete(ctx, rec.ID); err != nil {
			w.logger.Warn("Failed to delete expired export record",
				zap.String("export_id", rec.ID),
				zap.Error(err))
			failed++
			continue
		}
		removed++
	}

	if removed > 0 || failed > 0 {
		w.logger.Info("Expired exports removed",
			zap.Int("removed", removed),
			zap.Int("failed", failed),
			zap.Time("cutoff", cutoff))
	}
	w.record(removed, failed, nil)
	return removed, nil
}

func (w *ExportRetentionWorker) record(removed, failed int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.Sweeps++
	w.stats.Removed += removed
	w.stats.Failed += failed
	w.stats.LastSweep = w.now()
	if err != nil {
		w.stats.LastError = err.Error()
	}
}

var _ Worker = (*ExportRetentionWorker)(nil)
