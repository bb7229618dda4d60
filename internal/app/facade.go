package app

import (
	"context"
	"time"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/usecase"
)

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// FulfillmentFacade aggregates the application services behind the surface
// the HTTP handlers and the reconciler worker consume.
type FulfillmentFacade struct {
	fulfillment *usecase.FulfillmentService
	addresses   *usecase.AddressService
	coupons     *usecase.CouponService
	health      HealthChecker
}

func NewFulfillmentFacade(
	fulfillment *usecase.FulfillmentService,
	addresses *usecase.AddressService,
	coupons *usecase.CouponService,
	health HealthChecker,
) *FulfillmentFacade {
	return &FulfillmentFacade{
		fulfillment: fulfillment,
		addresses:   addresses,
		coupons:     coupons,
		health:      health,
	}
}

func (f *FulfillmentFacade) ProcessOrder(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error) {
	return f.fulfillment.Process(ctx, order)
}

func (f *FulfillmentFacade) ProcessFreeOrder(ctx context.Context, order model.PostcardOrder, couponCode string) (*usecase.Result, error) {
	return f.fulfillment.ProcessFree(ctx, order, couponCode)
}

func (f *FulfillmentFacade) RetryOrder(ctx context.Context, order model.PostcardOrder) (*usecase.Result, error) {
	return f.fulfillment.Retry(ctx, order)
}

func (f *FulfillmentFacade) RequestRefund(ctx context.Context, order model.PostcardOrder, contact model.RefundContact, platform string) (*usecase.Result, error) {
	return f.fulfillment.RequestRefund(ctx, order, contact, platform)
}

func (f *FulfillmentFacade) TransactionStatus(ctx context.Context, transactionID string) (*model.Transaction, error) {
	return f.fulfillment.Status(ctx, transactionID)
}

func (f *FulfillmentFacade) ValidateAddress(ctx context.Context, address model.Address) (*usecase.AddressOutcome, error) {
	return f.addresses.Validate(ctx, address)
}

func (f *FulfillmentFacade) ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	return f.coupons.Validate(ctx, code)
}

func (f *FulfillmentFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *FulfillmentFacade) FailStaleTransactions(ctx context.Context, olderThan time.Duration, limit int) ([]model.Transaction, error) {
	return f.fulfillment.FailStale(ctx, olderThan, limit)
}
