package model

// PostcardSize selects the physical print format.
type PostcardSize string

const (
	PostcardSizeRegular PostcardSize = "regular"
	PostcardSizeXL      PostcardSize = "xl"
)

// PostcardOrder is everything the client sends to have a postcard printed and
// mailed: the idempotency key, the payment reference, image locations and the
// card content. It is the input of one fulfillment flow.
type PostcardOrder struct {
	TransactionID   string
	PaymentIntentID string
	Recipient       Address
	Size            PostcardSize
	Message         string
	FrontImageURL   string
	BackImageURL    string
	SenderEmail     string
}

// PostcardJob is a fully assembled vendor submission: rendered images plus
// recipient fields. Ephemeral, it exists for one submission attempt only.
type PostcardJob struct {
	FrontImage []byte
	BackImage  []byte
	Recipient  Address
	Size       PostcardSize
	Message    string
}

// VendorReceipt is the vendor's acknowledgement of an accepted job.
type VendorReceipt struct {
	VendorJobID   string
	PDFPreviewURL string
}
