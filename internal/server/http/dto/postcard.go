package dto

import "time"

// PostcardRequest is the order payload for the fulfillment endpoints. A
// non-empty coupon code routes the order through the free flow instead of a
// charge.
type PostcardRequest struct {
	TransactionID   string         `json:"transaction_id"`
	PaymentIntentID string         `json:"payment_intent_id,omitempty"`
	Recipient       AddressPayload `json:"recipient"`
	Size            string         `json:"size"`
	Message         string         `json:"message"`
	FrontImageURL   string         `json:"front_image_url"`
	BackImageURL    string         `json:"back_image_url"`
	SenderEmail     string         `json:"sender_email,omitempty"`
	CouponCode      string         `json:"coupon_code,omitempty"`
}

// PostcardResponse reports the outcome of a fulfillment operation.
type PostcardResponse struct {
	TransactionID  string `json:"transaction_id"`
	State          string `json:"state"`
	VendorJobID    string `json:"vendor_job_id,omitempty"`
	PDFPreviewURL  string `json:"pdf_preview_url,omitempty"`
	Attempts       int    `json:"attempts,omitempty"`
	RetryAvailable bool   `json:"retry_available"`
	Error          string `json:"error,omitempty"`
	RefundCaseID   string `json:"refund_case_id,omitempty"`
}

// TransactionResponse is the ledger view of one transaction.
type TransactionResponse struct {
	TransactionID string     `json:"transaction_id"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	VendorJobID   string     `json:"vendor_job_id,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
