// Package facade holds the handler-facing facade stub. It lives apart from
// the other shared stubs because it imports usecase, which the usecase
// package's own tests must be able to avoid to keep imports acyclic.
package facade

import (
	"context"
	"time"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/usecase"
)

// FacadeStub implements the handler-facing application facade via function
// overrides. Defaults report a successful flow.
type FacadeStub struct {
	ProcessOrderFn      func(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error)
	ProcessFreeOrderFn  func(ctx context.Context, order model.PostcardOrder, couponCode string) (*usecase.Result, error)
	RetryOrderFn        func(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error)
	RequestRefundFn     func(ctx context.Context, order model.PostcardOrder, contact model.RefundContact, platform string) (*usecase.Result, error)
	TransactionStatusFn func(ctx context.Context, transactionID string) (*model.Transaction, error)
	ValidateAddressFn   func(ctx context.Context, address model.Address) (*usecase.AddressOutcome, error)
	ValidateCouponFn    func(ctx context.Context, code string) (*model.Coupon, error)
	HealthCheckFn       func(ctx context.Context) error
}

func succeededResult(transactionID string) *usecase.Result {
	return &usecase.Result{
		State:         usecase.StateSucceeded,
		TransactionID: transactionID,
		VendorJobID:   "job-1",
	}
}

func (s FacadeStub) ProcessOrder(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error) {
	if s.ProcessOrderFn != nil {
		return s.ProcessOrderFn(ctx, order)
	}
	return succeededResult(order.TransactionID), nil
}

func (s FacadeStub) ProcessFreeOrder(ctx context.Context, order model.PostcardOrder, couponCode string) (*usecase.Result, error) {
	if s.ProcessFreeOrderFn != nil {
		return s.ProcessFreeOrderFn(ctx, order, couponCode)
	}
	return succeededResult(order.TransactionID), nil
}

func (s FacadeStub) RetryOrder(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error) {
	if s.RetryOrderFn != nil {
		return s.RetryOrderFn(ctx, order)
	}
	return succeededResult(order.TransactionID), nil
}

func (s FacadeStub) RequestRefund(ctx context.Context, order model.PostcardOrder, contact model.RefundContact, platform string) (*usecase.Result, error) {
	if s.RequestRefundFn != nil {
		return s.RequestRefundFn(ctx, order, contact, platform)
	}
	return &usecase.Result{
		State:         usecase.StateRefundSubmitted,
		TransactionID: order.TransactionID,
		RefundCaseID:  "case-1",
	}, nil
}

func (s FacadeStub) TransactionStatus(ctx context.Context, transactionID string) (*model.Transaction, error) {
	if s.TransactionStatusFn != nil {
		return s.TransactionStatusFn(ctx, transactionID)
	}
	return &model.Transaction{
		ID:        transactionID,
		Status:    model.TransactionStatusCompleted,
		CreatedAt: time.Now(),
	}, nil
}

func (s FacadeStub) ValidateAddress(ctx context.Context, address model.Address) (*usecase.AddressOutcome, error) {
	if s.ValidateAddressFn != nil {
		return s.ValidateAddressFn(ctx, address)
	}
	address.Verified = true
	return &usecase.AddressOutcome{Verdict: usecase.AddressVerdictValid, Address: address}, nil
}

func (s FacadeStub) ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	if s.ValidateCouponFn != nil {
		return s.ValidateCouponFn(ctx, code)
	}
	if code == "" {
		return nil, domainErrors.ErrCouponNotFound
	}
	return &model.Coupon{Code: code, DiscountPercent: 100, Active: true}, nil
}

func (s FacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthCheckFn != nil {
		return s.HealthCheckFn(ctx)
	}
	return nil
}
