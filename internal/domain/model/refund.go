package model

// RefundContact is how the user wants to be reached about a refund.
type RefundContact struct {
	Name  string
	Email string
}

// RefundRequest is the payload sent to the external refund intake: contact
// details plus enough diagnostics to correlate with the failed submission.
type RefundRequest struct {
	CaseID        string
	TransactionID string
	Contact       RefundContact
	Platform      string
	LastError     string
	Recipient     Address
	Message       string
}
