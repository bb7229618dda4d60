package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
	testhelpers "github.com/xlpostcards/fulfillment/internal/test"
)

func TestNewReconcilerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewReconciler(&testhelpers.SweeperStub{}, time.Second, time.Minute, 0, 0, logger)
	if rec.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", rec.batchSize)
	}
	if rec.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", rec.workers)
	}
}

func TestReconcilerSweeps(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := &testhelpers.SweeperStub{
		Batches: [][]model.Transaction{{{ID: "tx-1", Status: model.TransactionStatusFailed, Attempts: 1}}},
	}
	rec := NewReconciler(sweeper, 10*time.Millisecond, time.Minute, 2, 2, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		sweeper.Lock()
		swept := sweeper.Sweeps > 0 && len(sweeper.Batches) == 0
		sweeper.Unlock()
		if swept {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for sweep")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec.Stop()
}

func TestReconcilerPassesConfiguredWindow(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	var gotAge atomic.Int64
	var gotLimit atomic.Int64
	sweeper := &testhelpers.SweeperStub{
		SweepFn: func(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error) {
			gotAge.Store(int64(olderThan))
			gotLimit.Store(int64(limit))
			return nil, nil
		},
	}
	rec := NewReconciler(sweeper, 5*time.Millisecond, 15*time.Minute, 32, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for gotAge.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for sweep call")
		case <-time.After(5 * time.Millisecond):
		}
	}
	rec.Stop()

	if time.Duration(gotAge.Load()) != 15*time.Minute {
		t.Fatalf("unexpected stale age %v", time.Duration(gotAge.Load()))
	}
	if gotLimit.Load() != 32 {
		t.Fatalf("unexpected batch limit %d", gotLimit.Load())
	}
}

func TestReconcilerSurvivesSweepErrors(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	var calls atomic.Int32
	sweeper := &testhelpers.SweeperStub{
		SweepFn: func(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error) {
			if calls.Add(1) == 1 {
				return nil, fmt.Errorf("connection reset")
			}
			return nil, nil
		},
	}
	rec := NewReconciler(sweeper, 5*time.Millisecond, time.Minute, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for second sweep after error")
		case <-time.After(5 * time.Millisecond):
		}
	}
	rec.Stop()
}
