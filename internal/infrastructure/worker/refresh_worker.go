package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/application/port"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
)

// DefaultRefreshInterval is how often overdue invoices are flagged
const DefaultRefreshInterval = 5 * time.Minute

// OverdueMarker flags invoices whose due date has passed
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// RefreshWorker periodically flags overdue invoices and invalidates the
// collections that display invoice status when anything changed.
type RefreshWorker struct {
	marker   OverdueMarker
	cache    port.CacheStore
	logger   *zap.Logger
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewRefreshWorker creates a refresh worker; a non-positive interval uses the default
func NewRefreshWorker(marker OverdueMarker, cache port.CacheStore, interval time.Duration, logger *zap.Logger) *RefreshWorker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshWorker{
		marker:   marker,
		cache:    cache,
		logger:   logger,
		interval: interval,
	}
}

// Start starts the polling loop
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("refresh worker is already running")
	}

	var loopCtx context.Context
	loopCtx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.done = make(chan struct{})

	w.logger.Info("RefreshWorker started", zap.Duration("interval", w.interval))

	go w.pollLoop(loopCtx, w.done)
	return nil
}

// Stop stops the loop and waits for the current pass to finish
func (w *RefreshWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	w.cancel()
	done := w.done
	w.mu.Unlock()

	<-done
	w.logger.Info("RefreshWorker stopped")
	return nil
}

// Name returns the worker name for identification
func (w *RefreshWorker) Name() string {
	return "RefreshWorker"
}

func (w *RefreshWorker) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single pass and returns how many invoices became overdue
func (w *RefreshWorker) RunOnce(ctx context.Context) int64 {
	n, err := w.marker.MarkOverdue(ctx)
	if err != nil {
		w.logger.Error("Failed to mark overdue invoices", zap.Error(err))
		return 0
	}
	if n == 0 {
		return 0
	}

	for _, key := range []string{
		entity.CacheKeyInvoices,
		entity.CacheKeyDashboardData,
		entity.CacheKeyReportsData,
	} {
		w.cache.Invalidate(ctx, key)
	}
	w.logger.Info("Overdue invoices refreshed", zap.Int64("count", n))
	return n
}
