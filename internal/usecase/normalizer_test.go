package usecase

import (
	"testing"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

func TestNormalizeAddressLine(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"uppercase and suffix", "123 Main Street", "123 MAIN ST"},
		{"direction", "45 North Elm Avenue", "45 N ELM AVE"},
		{"unit designator", "Apartment 4", "APT 4"},
		{"collapse whitespace", "  9   Oak   Lane ", "9 OAK LN"},
		{"token punctuation", "10 Pine St., Suite 2", "10 PINE ST STE 2"},
		{"already canonical", "77 BROADWAY BLVD", "77 BROADWAY BLVD"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeAddressLine(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func addr(line1, line2, city, state, zip string) model.Address {
	return model.Address{AddressLine1: line1, AddressLine2: line2, City: city, State: state, Zip: zip}
}

func corr(line1, line2, city, state, zip string) model.AddressCorrection {
	return model.AddressCorrection{AddressLine1: line1, AddressLine2: line2, City: city, State: state, Zip: zip}
}

func TestIsMaterialChange(t *testing.T) {
	cases := []struct {
		name     string
		original model.Address
		correct  model.AddressCorrection
		material bool
	}{
		{
			"identical",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Boston", "MA", "02134"),
			false,
		},
		{
			"case and abbreviation only",
			addr("123 main street", "", "Boston", "MA", "02134"),
			corr("123 MAIN ST", "", "BOSTON", "MA", "02134"),
			false,
		},
		{
			"extra internal spaces",
			addr("123  Main   St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Boston", "MA", "02134"),
			false,
		},
		{
			"zip plus four is not material",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Boston", "MA", "02134-1234"),
			false,
		},
		{
			"zip5 divergence",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Boston", "MA", "02135"),
			true,
		},
		{
			"city divergence with identical lines",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Cambridge", "MA", "02134"),
			true,
		},
		{
			"state divergence",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Boston", "NH", "02134"),
			true,
		},
		{
			"unit merged into line one",
			addr("123 Main St", "Apt 4", "Boston", "MA", "02134"),
			corr("123 Main St Apt 4", "", "Boston", "MA", "02134"),
			false,
		},
		{
			"unit merged with long forms",
			addr("123 Main Street", "Apartment 4", "Boston", "MA", "02134"),
			corr("123 MAIN ST APT 4", "", "Boston", "MA", "02134"),
			false,
		},
		{
			"unit merged but street changed",
			addr("123 Main St", "Apt 4", "Boston", "MA", "02134"),
			corr("125 Main St Apt 4", "", "Boston", "MA", "02134"),
			true,
		},
		{
			"unit dropped without absorption",
			addr("123 Main St", "Apt 4", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Boston", "MA", "02134"),
			true,
		},
		{
			"unit introduced by correction",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "Apt 4", "Boston", "MA", "02134"),
			true,
		},
		{
			"different street line",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("500 Elm St", "", "Boston", "MA", "02134"),
			true,
		},
		{
			"empty fields treated as empty strings",
			addr("123 Main St", "", "Boston", "MA", "02134"),
			corr("123 Main St", "", "Boston", "MA", ""),
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMaterialChange(tc.original, tc.correct); got != tc.material {
				t.Fatalf("expected material=%v, got %v", tc.material, got)
			}
		})
	}
}

// Case or whitespace-only perturbations must never flip the verdict.
func TestIsMaterialChangeStableUnderCaseAndWhitespace(t *testing.T) {
	original := addr("123 Main Street", "Apt 4", "Boston", "MA", "02134")
	base := corr("123 Main St Apt 4", "", "Boston", "MA", "02134")
	noisy := corr("123  MAIN  st  apt  4", "", " boston ", "ma", "02134")

	if IsMaterialChange(original, base) != IsMaterialChange(original, noisy) {
		t.Fatal("case/whitespace perturbation flipped the verdict")
	}
}
