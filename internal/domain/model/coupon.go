package model

import "time"

// Coupon is a promo code entitling the holder to a discounted or free
// postcard.
type Coupon struct {
	ID              int64
	Code            string
	DiscountPercent int
	MaxRedemptions  int
	TimesRedeemed   int
	CreatedAt       time.Time
	ExpiresAt       *time.Time
	Active          bool
}

// Expired reports whether the coupon's expiry has passed.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Exhausted reports whether all redemptions have been used.
func (c Coupon) Exhausted() bool {
	return c.MaxRedemptions > 0 && c.TimesRedeemed >= c.MaxRedemptions
}
