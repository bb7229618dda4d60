package repository

import (
	"context"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// CouponRepository provides access to promo codes.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	// Redeem atomically consumes one redemption of the code for the given
	// transaction. ErrCouponExhausted or ErrCouponExpired when the code can
	// no longer be used.
	Redeem(ctx context.Context, code, transactionID string) (*model.Coupon, error)
}
