package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// LedgerSweeper exposes the subset of application functionality required by the worker.
type LedgerSweeper interface {
	FailStaleTransactions(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error)
}

// Reconciler periodically fails pending transactions that outlived any live
// flow (process crash between charge and vendor outcome). Flipping them to
// failed makes the interruption durable and re-opens the retry and refund
// paths for the client.
type Reconciler struct {
	sweeper      LedgerSweeper
	pollInterval time.Duration
	staleAge     time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Transaction
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconciler worker pool.
func NewReconciler(sweeper LedgerSweeper, pollInterval, staleAge time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		sweeper:      sweeper,
		pollInterval: pollInterval,
		staleAge:     staleAge,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Transaction, batchSize*workers),
	}
}

// Start launches background sweeping.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweepAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) sweepAndDispatch(ctx context.Context) {
	failed, err := r.sweeper.FailStaleTransactions(ctx, r.staleAge, r.batchSize)
	if err != nil {
		r.logger.Error("stale transaction sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, tx := range failed {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- tx:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case tx, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleTransaction(tx)
		}
	}
}

// handleTransaction writes the audit record for one reconciled transaction.
func (r *Reconciler) handleTransaction(tx model.Transaction) {
	r.logger.Warn("pending transaction reconciled to failed",
		slog.String("transaction_id", tx.ID),
		slog.Int("attempts", tx.Attempts),
		slog.Time("created_at", tx.CreatedAt),
	)
}
