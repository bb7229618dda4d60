package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/xlpostcards/fulfillment/internal/adapter/addresscheck"
	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// AddressVerdict is the outcome of one validation pass.
type AddressVerdict string

const (
	// AddressVerdictValid means the address matched the postal database as
	// entered, modulo formatting.
	AddressVerdictValid AddressVerdict = "valid"
	// AddressVerdictCorrected means formatting-level corrections were merged
	// in automatically.
	AddressVerdictCorrected AddressVerdict = "corrected"
	// AddressVerdictConfirm means the suggested correction changes the
	// destination and the user must approve it before mailing.
	AddressVerdictConfirm AddressVerdict = "confirm"
	// AddressVerdictInvalid means the service could not match the address.
	AddressVerdictInvalid AddressVerdict = "invalid"
)

// AddressOutcome bundles the verdict with the address to use going forward
// and, for the confirm case, the suggestion awaiting user approval.
type AddressOutcome struct {
	Verdict    AddressVerdict
	Address    model.Address
	Suggestion *model.AddressCorrection
}

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// AddressService validates recipient addresses before an order is accepted.
type AddressService struct {
	verifier addresscheck.Client
	logger   *slog.Logger
}

func NewAddressService(verifier addresscheck.Client, logger *slog.Logger) *AddressService {
	return &AddressService{verifier: verifier, logger: logger}
}

// Validate checks the address locally, then against the verification
// service. Structural defects surface as ErrInvalidAddress; a service
// rejection of a well-formed address is the invalid verdict, not an error.
func (s *AddressService) Validate(ctx context.Context, address model.Address) (*AddressOutcome, error) {
	if err := checkStructure(address); err != nil {
		return nil, err
	}

	verification, err := s.verifier.Verify(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("verify address: %w", err)
	}

	if !verification.IsValid {
		return &AddressOutcome{Verdict: AddressVerdictInvalid, Address: address}, nil
	}

	correction := verification.Correction
	if IsMaterialChange(address, correction) {
		s.logger.Info("address correction requires confirmation",
			slog.String("city", correction.City),
			slog.String("state", correction.State),
		)
		return &AddressOutcome{
			Verdict:    AddressVerdictConfirm,
			Address:    address,
			Suggestion: &correction,
		}, nil
	}

	merged := correction.Merge(address)
	verdict := AddressVerdictCorrected
	if identical(address, correction) {
		verdict = AddressVerdictValid
	}
	return &AddressOutcome{Verdict: verdict, Address: merged}, nil
}

func checkStructure(a model.Address) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: recipient name is required", domainErrors.ErrInvalidAddress)
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		return fmt.Errorf("%w: address line 1 is required", domainErrors.ErrInvalidAddress)
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("%w: city is required", domainErrors.ErrInvalidAddress)
	}
	state := strings.TrimSpace(a.State)
	if len(state) != 2 || !isAlpha(state) {
		return fmt.Errorf("%w: state must be a two-letter abbreviation", domainErrors.ErrInvalidAddress)
	}
	if !zipPattern.MatchString(strings.TrimSpace(a.Zip)) {
		return fmt.Errorf("%w: zip must be 5 digits or zip+4", domainErrors.ErrInvalidAddress)
	}
	return nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// identical reports whether the correction changes nothing beyond
// case and surrounding whitespace.
func identical(a model.Address, c model.AddressCorrection) bool {
	return equalFoldTrimmed(a.AddressLine1, c.AddressLine1) &&
		equalFoldTrimmed(a.AddressLine2, c.AddressLine2) &&
		equalFoldTrimmed(a.City, c.City) &&
		equalFoldTrimmed(a.State, c.State) &&
		equalFoldTrimmed(a.Zip, c.Zip)
}
