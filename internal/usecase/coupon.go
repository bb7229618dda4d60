package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/domain/repository"
)

// CouponService answers whether a promo code is currently usable and
// consumes redemptions during free fulfillment.
type CouponService struct {
	coupons repository.CouponRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewCouponService(coupons repository.CouponRepository, logger *slog.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger, now: time.Now}
}

// Validate checks the code without consuming a redemption.
func (s *CouponService) Validate(ctx context.Context, code string) (*model.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domainErrors.ErrCouponNotFound
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.Active {
		return nil, domainErrors.ErrCouponNotFound
	}
	if coupon.Expired(s.now()) {
		return nil, domainErrors.ErrCouponExpired
	}
	if coupon.Exhausted() {
		return nil, domainErrors.ErrCouponExhausted
	}
	return coupon, nil
}

// Redeem consumes one redemption for the transaction. The repository
// performs the check-and-consume atomically; Validate beforehand only
// improves error messages, it is not relied on for correctness.
func (s *CouponService) Redeem(ctx context.Context, code, transactionID string) (*model.Coupon, error) {
	coupon, err := s.coupons.Redeem(ctx, strings.TrimSpace(code), transactionID)
	if err != nil {
		return nil, fmt.Errorf("redeem coupon: %w", err)
	}
	s.logger.Info("coupon redeemed",
		slog.String("code", coupon.Code),
		slog.String("transaction_id", transactionID),
	)
	return coupon, nil
}
