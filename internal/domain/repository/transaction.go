package repository

import (
	"context"
	"time"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// TransactionRepository is the durable ledger enforcing at-most-once
// processing per transaction id. Create-if-absent is the only mutual
// exclusion primitive in the system; implementations must be safe for
// concurrent use across flows.
type TransactionRepository interface {
	// Create inserts the id with status pending. Any existing row, whatever
	// its status, yields ErrDuplicateTransaction; failed ids re-enter through
	// MarkRetrying instead.
	Create(ctx context.Context, id string) (*model.Transaction, error)
	// CheckStatus returns TransactionStatusNone for unknown ids.
	CheckStatus(ctx context.Context, id string) (model.TransactionStatus, error)
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	// MarkCompleted transitions pending -> completed and records the vendor
	// job id. ErrInvalidState unless currently pending.
	MarkCompleted(ctx context.Context, id, vendorJobID string) error
	// MarkFailed transitions pending -> failed, incrementing the attempt
	// counter. Idempotent when already failed (the counter is not bumped
	// twice). ErrInvalidState otherwise.
	MarkFailed(ctx context.Context, id, cause string) (*model.Transaction, error)
	// MarkRetrying transitions failed -> pending for a legitimate retry with
	// the same id. ErrInvalidState unless currently failed.
	MarkRetrying(ctx context.Context, id string) error
	// FailStale flips pending rows older than the threshold to failed and
	// returns them. Used by the reconciler to give interrupted flows an
	// auditable terminal-ish status.
	FailStale(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error)
}
