package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
	"github.com/xlpostcards/fulfillment/internal/test"
)

func fixedCoupon(mutate func(*model.Coupon)) *model.Coupon {
	expires := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	c := &model.Coupon{
		ID:              1,
		Code:            "FREEBIE",
		DiscountPercent: 100,
		MaxRedemptions:  10,
		TimesRedeemed:   3,
		ExpiresAt:       &expires,
		Active:          true,
	}
	if mutate != nil {
		mutate(c)
	}
	return c
}

func couponServiceAt(t *testing.T, repo *test.CouponRepoStub, now time.Time) *CouponService {
	t.Helper()
	service := NewCouponService(repo, test.Logger())
	service.now = func() time.Time { return now }
	return service
}

func TestCouponValidate(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		coupon  *model.Coupon
		wantErr error
	}{
		{name: "usable", coupon: fixedCoupon(nil)},
		{
			name:    "inactive",
			coupon:  fixedCoupon(func(c *model.Coupon) { c.Active = false }),
			wantErr: domainErrors.ErrCouponNotFound,
		},
		{
			name: "expired",
			coupon: fixedCoupon(func(c *model.Coupon) {
				past := now.Add(-time.Hour)
				c.ExpiresAt = &past
			}),
			wantErr: domainErrors.ErrCouponExpired,
		},
		{
			name:    "exhausted",
			coupon:  fixedCoupon(func(c *model.Coupon) { c.TimesRedeemed = c.MaxRedemptions }),
			wantErr: domainErrors.ErrCouponExhausted,
		},
		{
			name:   "no expiry",
			coupon: fixedCoupon(func(c *model.Coupon) { c.ExpiresAt = nil }),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &test.CouponRepoStub{
				GetByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
					return tc.coupon, nil
				},
			}

			coupon, err := couponServiceAt(t, repo, now).Validate(context.Background(), "FREEBIE")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if coupon.Code != "FREEBIE" {
				t.Fatalf("unexpected code %q", coupon.Code)
			}
		})
	}
}

func TestCouponValidateUnknownCode(t *testing.T) {
	service := couponServiceAt(t, &test.CouponRepoStub{}, time.Now())
	if _, err := service.Validate(context.Background(), "NOPE"); !errors.Is(err, domainErrors.ErrCouponNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCouponValidateBlankCode(t *testing.T) {
	repo := &test.CouponRepoStub{
		GetByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			t.Fatal("blank code must not hit the repository")
			return nil, nil
		},
	}
	service := couponServiceAt(t, repo, time.Now())
	if _, err := service.Validate(context.Background(), "  "); !errors.Is(err, domainErrors.ErrCouponNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCouponRedeemTrimsCode(t *testing.T) {
	var gotCode string
	repo := &test.CouponRepoStub{
		RedeemFn: func(ctx context.Context, code, transactionID string) (*model.Coupon, error) {
			gotCode = code
			return fixedCoupon(nil), nil
		},
	}
	service := couponServiceAt(t, repo, time.Now())

	if _, err := service.Redeem(context.Background(), " FREEBIE ", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCode != "FREEBIE" {
		t.Fatalf("code not trimmed: %q", gotCode)
	}
}

func TestCouponRedeemPropagatesSentinel(t *testing.T) {
	repo := &test.CouponRepoStub{
		RedeemFn: func(ctx context.Context, code, transactionID string) (*model.Coupon, error) {
			return nil, domainErrors.ErrCouponExhausted
		},
	}
	service := couponServiceAt(t, repo, time.Now())

	if _, err := service.Redeem(context.Background(), "FREEBIE", "tx-1"); !errors.Is(err, domainErrors.ErrCouponExhausted) {
		t.Fatalf("expected exhausted, got %v", err)
	}
}
