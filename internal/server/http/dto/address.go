package dto

// AddressPayload carries a US mailing address on the wire.
type AddressPayload struct {
	Name         string `json:"name,omitempty"`
	Salutation   string `json:"salutation,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// AddressValidateResponse reports the validation verdict. Suggestion is
// present only for the confirm verdict.
type AddressValidateResponse struct {
	Verdict    string          `json:"verdict"`
	Address    AddressPayload  `json:"address"`
	Suggestion *AddressPayload `json:"suggestion,omitempty"`
}
