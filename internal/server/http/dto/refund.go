package dto

// RefundIntakeRequest files a refund case for a failed transaction. The
// recipient and message travel along so the case is self-contained for
// support correspondence.
type RefundIntakeRequest struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Platform  string         `json:"platform,omitempty"`
	Recipient AddressPayload `json:"recipient"`
	Message   string         `json:"message,omitempty"`
}
