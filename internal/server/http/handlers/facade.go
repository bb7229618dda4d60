package handlers

import (
	"context"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/usecase"
)

// PostcardFacade encapsulates the fulfillment operations exposed via HTTP.
type PostcardFacade interface {
	ProcessOrder(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error)
	ProcessFreeOrder(ctx context.Context, order model.PostcardOrder, couponCode string) (*usecase.Result, error)
	RetryOrder(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error)
	RequestRefund(ctx context.Context, order model.PostcardOrder, contact model.RefundContact, platform string) (*usecase.Result, error)
	TransactionStatus(ctx context.Context, transactionID string) (*model.Transaction, error)
}

// AddressFacade provides recipient address validation.
type AddressFacade interface {
	ValidateAddress(ctx context.Context, address model.Address) (*usecase.AddressOutcome, error)
}

// CouponFacade provides promo code checks.
type CouponFacade interface {
	ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error)
}

// HealthFacade reports storage availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// FulfillmentFacade aggregates the full set of operations used across handlers.
type FulfillmentFacade interface {
	PostcardFacade
	AddressFacade
	CouponFacade
	HealthFacade
}
