package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xlpostcards/fulfillment/internal/adapter/images"
	"github.com/xlpostcards/fulfillment/internal/adapter/payment"
	"github.com/xlpostcards/fulfillment/internal/adapter/refund"
	"github.com/xlpostcards/fulfillment/internal/adapter/stannp"
	"github.com/xlpostcards/fulfillment/internal/config"
	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/domain/repository"
)

// FlowState names where a fulfillment flow currently stands. States are
// explicit so every transition is observable in logs and results instead of
// being implied by which code path ran.
type FlowState string

const (
	StateIdle            FlowState = "IDLE"
	StateCharging        FlowState = "CHARGING"
	StateCapturing       FlowState = "CAPTURING"
	StateSubmitting      FlowState = "SUBMITTING"
	StateSucceeded       FlowState = "SUCCEEDED"
	StateAttemptFailed   FlowState = "ATTEMPT_FAILED"
	StateRetrying        FlowState = "RETRYING"
	StateRefundRequested FlowState = "REFUND_REQUESTED"
	StateRefundSubmitted FlowState = "REFUND_SUBMITTED"
)

// Result is the terminal report of one orchestrator operation.
type Result struct {
	State          FlowState
	TransactionID  string
	VendorJobID    string
	PDFPreviewURL  string
	Attempts       int
	RetryAvailable bool
	LastError      string
	RefundCaseID   string
}

// FulfillmentService drives a postcard order end to end: charge, ledger
// capture, artwork fetch, vendor submission, and the retry/refund paths when
// a submission fails. The ledger's create-if-absent is the only guard
// against double fulfillment; the service never submits to the vendor
// without holding a pending ledger entry.
type FulfillmentService struct {
	ledger   repository.TransactionRepository
	vendor   stannp.Client
	payments payment.Client
	refunds  refund.Client
	coupons  *CouponService
	fetcher  images.Fetcher
	logger   *slog.Logger

	submitTimeout    time.Duration
	maxSubmitRetries int
	prices           map[model.PostcardSize]int
	newCaseID        func() string
}

func NewFulfillmentService(
	ledger repository.TransactionRepository,
	vendor stannp.Client,
	payments payment.Client,
	refunds refund.Client,
	coupons *CouponService,
	fetcher images.Fetcher,
	cfg *config.Config,
	logger *slog.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		ledger:           ledger,
		vendor:           vendor,
		payments:         payments,
		refunds:          refunds,
		coupons:          coupons,
		fetcher:          fetcher,
		logger:           logger,
		submitTimeout:    cfg.SubmitTimeout,
		maxSubmitRetries: cfg.MaxSubmitRetries,
		prices: map[model.PostcardSize]int{
			model.PostcardSizeRegular: cfg.PriceRegularCents,
			model.PostcardSizeXL:      cfg.PriceXLCents,
		},
		newCaseID: uuid.NewString,
	}
}

// Process runs a paid fulfillment flow. The charge is captured before the
// ledger entry is created so a cancelled or declined payment leaves no trace
// in the ledger; the entry, once created, is what makes the flow exclusive.
func (s *FulfillmentService) Process(ctx context.Context, order model.PostcardOrder) (*Result, error) {
	price, ok := s.prices[order.Size]
	if !ok {
		return nil, fmt.Errorf("unsupported postcard size %q", order.Size)
	}

	status, err := s.ledger.CheckStatus(ctx, order.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("check transaction: %w", err)
	}
	if status != model.TransactionStatusNone {
		return nil, domainErrors.ErrDuplicateTransaction
	}

	s.transition(order.TransactionID, StateIdle, StateCharging)
	if _, err := s.payments.Charge(ctx, model.ChargeRequest{
		TransactionID:   order.TransactionID,
		PaymentIntentID: order.PaymentIntentID,
		AmountCents:     price,
		Email:           order.SenderEmail,
	}); err != nil {
		if errors.Is(err, domainErrors.ErrPaymentCancelled) || errors.Is(err, domainErrors.ErrPaymentDeclined) {
			s.logger.Info("charge not captured",
				slog.String("transaction_id", order.TransactionID),
				slog.String("reason", err.Error()),
			)
			return nil, err
		}
		return nil, fmt.Errorf("capture charge: %w", err)
	}

	return s.capture(ctx, order, StateCharging)
}

// ProcessFree runs a coupon-funded flow. Redeeming the code replaces the
// charge; everything after the ledger capture is identical to the paid path.
func (s *FulfillmentService) ProcessFree(ctx context.Context, order model.PostcardOrder, couponCode string) (*Result, error) {
	if _, ok := s.prices[order.Size]; !ok {
		return nil, fmt.Errorf("unsupported postcard size %q", order.Size)
	}

	status, err := s.ledger.CheckStatus(ctx, order.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("check transaction: %w", err)
	}
	if status != model.TransactionStatusNone {
		return nil, domainErrors.ErrDuplicateTransaction
	}

	s.transition(order.TransactionID, StateIdle, StateCharging)
	if _, err := s.coupons.Redeem(ctx, couponCode, order.TransactionID); err != nil {
		return nil, err
	}

	return s.capture(ctx, order, StateCharging)
}

// capture creates the pending ledger entry and runs one submission attempt.
func (s *FulfillmentService) capture(ctx context.Context, order model.PostcardOrder, from FlowState) (*Result, error) {
	s.transition(order.TransactionID, from, StateCapturing)
	if _, err := s.ledger.Create(ctx, order.TransactionID); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateTransaction) {
			// A concurrent flow with the same id won the race after our
			// status check. Funds were captured here; surface loudly.
			s.logger.Error("duplicate transaction after charge",
				slog.String("transaction_id", order.TransactionID),
			)
		}
		return nil, err
	}

	return s.attempt(ctx, order, StateCapturing)
}

// Retry re-runs the vendor submission for a failed transaction. The ledger
// transition failed -> pending is the gate: a completed or unknown id is
// rejected, and a transaction that already used its retry budget gets
// ErrRetryExhausted without touching the vendor.
func (s *FulfillmentService) Retry(ctx context.Context, order model.PostcardOrder) (*Result, error) {
	tx, err := s.ledger.GetByID(ctx, order.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status != model.TransactionStatusFailed {
		return nil, fmt.Errorf("%w: transaction is %s", domainErrors.ErrInvalidState, tx.Status)
	}
	if tx.Attempts > s.maxSubmitRetries {
		return nil, domainErrors.ErrRetryExhausted
	}

	s.transition(order.TransactionID, StateAttemptFailed, StateRetrying)
	if err := s.ledger.MarkRetrying(ctx, order.TransactionID); err != nil {
		return nil, err
	}

	return s.attempt(ctx, order, StateRetrying)
}

// attempt fetches artwork and submits to the vendor once, recording the
// outcome in the ledger. A fetch failure counts the same as a vendor
// rejection: the attempt is consumed and the failure is durable.
func (s *FulfillmentService) attempt(ctx context.Context, order model.PostcardOrder, from FlowState) (*Result, error) {
	s.transition(order.TransactionID, from, StateSubmitting)

	receipt, submitErr := s.submitOnce(ctx, order)
	if submitErr == nil {
		if err := s.ledger.MarkCompleted(ctx, order.TransactionID, receipt.VendorJobID); err != nil {
			return nil, fmt.Errorf("record completion: %w", err)
		}
		s.transition(order.TransactionID, StateSubmitting, StateSucceeded)
		return &Result{
			State:         StateSucceeded,
			TransactionID: order.TransactionID,
			VendorJobID:   receipt.VendorJobID,
			PDFPreviewURL: receipt.PDFPreviewURL,
		}, nil
	}

	tx, err := s.ledger.MarkFailed(ctx, order.TransactionID, submitErr.Error())
	if err != nil {
		return nil, fmt.Errorf("record failure: %w", err)
	}

	s.transition(order.TransactionID, StateSubmitting, StateAttemptFailed)
	s.logger.Error("submission attempt failed",
		slog.String("transaction_id", order.TransactionID),
		slog.Int("attempts", tx.Attempts),
		slog.String("error", submitErr.Error()),
	)
	return &Result{
		State:          StateAttemptFailed,
		TransactionID:  order.TransactionID,
		Attempts:       tx.Attempts,
		RetryAvailable: tx.Attempts <= s.maxSubmitRetries,
		LastError:      submitErr.Error(),
	}, nil
}

func (s *FulfillmentService) submitOnce(ctx context.Context, order model.PostcardOrder) (*model.VendorReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	front, err := s.fetcher.Fetch(ctx, order.FrontImageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch front image: %w", err)
	}
	back, err := s.fetcher.Fetch(ctx, order.BackImageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch back image: %w", err)
	}

	return s.vendor.Submit(ctx, model.PostcardJob{
		FrontImage: front,
		BackImage:  back,
		Recipient:  order.Recipient,
		Size:       order.Size,
		Message:    order.Message,
	})
}

// RequestRefund files a refund case for a failed transaction. The intake is
// external and asynchronous; a filed case is the flow's terminal state.
func (s *FulfillmentService) RequestRefund(ctx context.Context, order model.PostcardOrder, contact model.RefundContact, platform string) (*Result, error) {
	tx, err := s.ledger.GetByID(ctx, order.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status != model.TransactionStatusFailed {
		return nil, fmt.Errorf("%w: refund requires a failed transaction, got %s", domainErrors.ErrInvalidState, tx.Status)
	}

	s.transition(order.TransactionID, StateAttemptFailed, StateRefundRequested)
	caseID := s.newCaseID()
	if err := s.refunds.File(ctx, model.RefundRequest{
		CaseID:        caseID,
		TransactionID: order.TransactionID,
		Contact:       contact,
		Platform:      platform,
		LastError:     tx.LastError,
		Recipient:     order.Recipient,
		Message:       order.Message,
	}); err != nil {
		return nil, fmt.Errorf("file refund: %w", err)
	}

	s.transition(order.TransactionID, StateRefundRequested, StateRefundSubmitted)
	return &Result{
		State:         StateRefundSubmitted,
		TransactionID: order.TransactionID,
		Attempts:      tx.Attempts,
		LastError:     tx.LastError,
		RefundCaseID:  caseID,
	}, nil
}

// FailStale flips pending transactions older than the threshold to failed.
// Called by the reconciler to give flows interrupted mid-submission a
// durable, retryable outcome.
func (s *FulfillmentService) FailStale(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error) {
	return s.ledger.FailStale(ctx, olderThan, limit)
}

// Status returns the ledger view of a transaction.
func (s *FulfillmentService) Status(ctx context.Context, transactionID string) (*model.Transaction, error) {
	return s.ledger.GetByID(ctx, transactionID)
}

func (s *FulfillmentService) transition(transactionID string, from, to FlowState) {
	s.logger.Debug("flow transition",
		slog.String("transaction_id", transactionID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
}
