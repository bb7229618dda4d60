package dto

import "time"

// CouponValidateRequest asks whether a promo code is usable.
type CouponValidateRequest struct {
	Code string `json:"code"`
}

// CouponValidateResponse describes a usable coupon.
type CouponValidateResponse struct {
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}
