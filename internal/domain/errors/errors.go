package errors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateTransaction = errors.New("transaction already processed")
	ErrInvalidState         = errors.New("invalid transaction state")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrPaymentCancelled     = errors.New("payment cancelled")
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrRetryExhausted       = errors.New("retry budget exhausted")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponExpired        = errors.New("coupon expired")
	ErrCouponExhausted      = errors.New("coupon exhausted")
)
