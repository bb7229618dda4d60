package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Transactions() TransactionRepository
	Coupons() CouponRepository
}
