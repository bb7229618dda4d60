package model

import "time"

// TransactionStatus describes the ledger lifecycle of a purchase attempt.
type TransactionStatus string

const (
	TransactionStatusNone      TransactionStatus = "NONE"
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction correlates one charge with one print submission. The ID is
// client-generated and opaque; it is the idempotency key for the whole flow.
type Transaction struct {
	ID          string
	Status      TransactionStatus
	Attempts    int
	LastError   string
	VendorJobID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}
