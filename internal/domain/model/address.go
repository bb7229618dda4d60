package model

// Address is a US mailing address as entered or confirmed by the user.
// Verified becomes true only after a successful validation pass.
type Address struct {
	Name         string
	Salutation   string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Zip          string
	Verified     bool
}

// AddressCorrection is the normalized address returned by the verification
// service. It lives only for the duration of a single validation call: it is
// discarded, auto-merged into an Address, or surfaced for a user decision.
type AddressCorrection struct {
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Zip          string
}

// Merge applies the correction onto the address, preserving the recipient
// name and marking the result verified.
func (c AddressCorrection) Merge(a Address) Address {
	a.AddressLine1 = c.AddressLine1
	a.AddressLine2 = c.AddressLine2
	a.City = c.City
	a.State = c.State
	a.Zip = c.Zip
	a.Verified = true
	return a
}
