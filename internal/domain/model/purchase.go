package model

// ChargeRequest asks the payment provider to capture funds for one
// transaction.
type ChargeRequest struct {
	TransactionID   string
	PaymentIntentID string
	AmountCents     int
	Email           string
}

// Purchase is the provider's confirmation of a successful charge. Never
// persisted: durability comes from the Transaction, not the Purchase.
type Purchase struct {
	TransactionID    string
	PaymentReference string
}
