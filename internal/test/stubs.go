// Package test holds hand-written stubs shared by unit tests across
// packages. Each stub delegates to optional function fields; unset fields
// fall back to a benign default.
package test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/xlpostcards/fulfillment/internal/adapter/addresscheck"
	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LedgerStub implements repository.TransactionRepository.
type LedgerStub struct {
	CreateFn        func(ctx context.Context, id string) (*model.Transaction, error)
	CheckStatusFn   func(ctx context.Context, id string) (model.TransactionStatus, error)
	GetByIDFn       func(ctx context.Context, id string) (*model.Transaction, error)
	MarkCompletedFn func(ctx context.Context, id, vendorJobID string) error
	MarkFailedFn    func(ctx context.Context, id, cause string) (*model.Transaction, error)
	MarkRetryingFn  func(ctx context.Context, id string) error
	FailStaleFn     func(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error)
}

func (s *LedgerStub) Create(ctx context.Context, id string) (*model.Transaction, error) {
	if s.CreateFn == nil {
		return &model.Transaction{ID: id, Status: model.TransactionStatusPending}, nil
	}
	return s.CreateFn(ctx, id)
}

func (s *LedgerStub) CheckStatus(ctx context.Context, id string) (model.TransactionStatus, error) {
	if s.CheckStatusFn == nil {
		return model.TransactionStatusNone, nil
	}
	return s.CheckStatusFn(ctx, id)
}

func (s *LedgerStub) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	if s.GetByIDFn == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.GetByIDFn(ctx, id)
}

func (s *LedgerStub) MarkCompleted(ctx context.Context, id, vendorJobID string) error {
	if s.MarkCompletedFn == nil {
		return nil
	}
	return s.MarkCompletedFn(ctx, id, vendorJobID)
}

func (s *LedgerStub) MarkFailed(ctx context.Context, id, cause string) (*model.Transaction, error) {
	if s.MarkFailedFn == nil {
		return &model.Transaction{ID: id, Status: model.TransactionStatusFailed, Attempts: 1, LastError: cause}, nil
	}
	return s.MarkFailedFn(ctx, id, cause)
}

func (s *LedgerStub) MarkRetrying(ctx context.Context, id string) error {
	if s.MarkRetryingFn == nil {
		return nil
	}
	return s.MarkRetryingFn(ctx, id)
}

func (s *LedgerStub) FailStale(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error) {
	if s.FailStaleFn == nil {
		return nil, nil
	}
	return s.FailStaleFn(ctx, olderThan, limit)
}

// CouponRepoStub implements repository.CouponRepository.
type CouponRepoStub struct {
	GetByCodeFn func(ctx context.Context, code string) (*model.Coupon, error)
	RedeemFn    func(ctx context.Context, code, transactionID string) (*model.Coupon, error)
}

func (s *CouponRepoStub) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if s.GetByCodeFn == nil {
		return nil, domainErrors.ErrCouponNotFound
	}
	return s.GetByCodeFn(ctx, code)
}

func (s *CouponRepoStub) Redeem(ctx context.Context, code, transactionID string) (*model.Coupon, error) {
	if s.RedeemFn == nil {
		return nil, domainErrors.ErrCouponNotFound
	}
	return s.RedeemFn(ctx, code, transactionID)
}

// VendorStub implements the print vendor client.
type VendorStub struct {
	SubmitFn func(ctx context.Context, job model.PostcardJob) (*model.VendorReceipt, error)
}

func (s *VendorStub) Submit(ctx context.Context, job model.PostcardJob) (*model.VendorReceipt, error) {
	if s.SubmitFn == nil {
		return &model.VendorReceipt{VendorJobID: "job-1"}, nil
	}
	return s.SubmitFn(ctx, job)
}

// PaymentStub implements the payment client.
type PaymentStub struct {
	ChargeFn func(ctx context.Context, req model.ChargeRequest) (*model.Purchase, error)
}

func (s *PaymentStub) Charge(ctx context.Context, req model.ChargeRequest) (*model.Purchase, error) {
	if s.ChargeFn == nil {
		return &model.Purchase{TransactionID: req.TransactionID, PaymentReference: "ch-1"}, nil
	}
	return s.ChargeFn(ctx, req)
}

// RefundStub implements the refund intake client.
type RefundStub struct {
	FileFn func(ctx context.Context, req model.RefundRequest) error
}

func (s *RefundStub) File(ctx context.Context, req model.RefundRequest) error {
	if s.FileFn == nil {
		return nil
	}
	return s.FileFn(ctx, req)
}

// FetcherStub implements the artwork fetcher.
type FetcherStub struct {
	FetchFn func(ctx context.Context, imageURL string) ([]byte, error)
}

func (s *FetcherStub) Fetch(ctx context.Context, imageURL string) ([]byte, error) {
	if s.FetchFn == nil {
		return []byte{0x89, 'P', 'N', 'G'}, nil
	}
	return s.FetchFn(ctx, imageURL)
}

// SweeperStub implements the reconciler's ledger sweep. Each call consumes
// the next prepared batch.
type SweeperStub struct {
	sync.Mutex
	Batches [][]model.Transaction
	Sweeps  int
	SweepFn func(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error)
}

func (s *SweeperStub) FailStaleTransactions(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error) {
	if s.SweepFn != nil {
		return s.SweepFn(ctx, olderThan, limit)
	}
	s.Lock()
	defer s.Unlock()
	s.Sweeps++
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// VerifierStub implements the address verification client. The default
// verdict echoes the input back as a valid, unchanged address.
type VerifierStub struct {
	VerifyFn func(ctx context.Context, address model.Address) (*addresscheck.Verification, error)
}

func (s *VerifierStub) Verify(ctx context.Context, address model.Address) (*addresscheck.Verification, error) {
	if s.VerifyFn == nil {
		return &addresscheck.Verification{
			IsValid: true,
			Correction: model.AddressCorrection{
				AddressLine1: address.AddressLine1,
				AddressLine2: address.AddressLine2,
				City:         address.City,
				State:        address.State,
				Zip:          address.Zip,
			},
		}, nil
	}
	return s.VerifyFn(ctx, address)
}
