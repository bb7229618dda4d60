package usecase

import (
	"strings"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// canonicalTokens maps spelled-out street suffixes, unit designators and
// directions to the short forms the verification service emits. Normalizing
// both sides before comparison keeps USPS-style reformatting (case,
// abbreviations, unit placement) from being reported as a material change.
var canonicalTokens = map[string]string{
	"STREET":     "ST",
	"AVENUE":     "AVE",
	"BOULEVARD":  "BLVD",
	"CIRCLE":     "CIR",
	"COURT":      "CT",
	"DRIVE":      "DR",
	"EXPRESSWAY": "EXPY",
	"HIGHWAY":    "HWY",
	"LANE":       "LN",
	"PARKWAY":    "PKWY",
	"PLACE":      "PL",
	"ROAD":       "RD",
	"SQUARE":     "SQ",
	"TERRACE":    "TER",
	"TRAIL":      "TRL",
	"APARTMENT":  "APT",
	"BUILDING":   "BLDG",
	"DEPARTMENT": "DEPT",
	"FLOOR":      "FL",
	"ROOM":       "RM",
	"SUITE":      "STE",
	"NORTH":      "N",
	"SOUTH":      "S",
	"EAST":       "E",
	"WEST":       "W",
	"NORTHEAST":  "NE",
	"NORTHWEST":  "NW",
	"SOUTHEAST":  "SE",
	"SOUTHWEST":  "SW",
}

// NormalizeAddressLine uppercases the line, strips token punctuation,
// expands known long forms to their canonical short form and collapses
// whitespace.
func NormalizeAddressLine(line string) string {
	fields := strings.Fields(strings.ToUpper(line))
	for i, token := range fields {
		token = strings.Trim(token, ".,")
		if short, ok := canonicalTokens[token]; ok {
			token = short
		}
		fields[i] = token
	}
	return strings.Join(fields, " ")
}

// zip5 reduces a ZIP or ZIP+4 to its first five digits.
func zip5(zip string) string {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i >= 0 {
		zip = zip[:i]
	}
	if len(zip) > 5 {
		zip = zip[:5]
	}
	return zip
}

func equalFoldTrimmed(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IsMaterialChange decides whether a vendor-suggested correction is
// significant enough to require user confirmation before mailing. City,
// state or ZIP5 divergence is always material. Address lines are compared
// in normalized form; the one tolerated line-1 divergence is the vendor
// merging the original unit designator (line 2) into line 1 without
// otherwise altering it.
func IsMaterialChange(original model.Address, corrected model.AddressCorrection) bool {
	if !equalFoldTrimmed(original.City, corrected.City) {
		return true
	}
	if !equalFoldTrimmed(original.State, corrected.State) {
		return true
	}
	if !strings.EqualFold(zip5(original.Zip), zip5(corrected.Zip)) {
		return true
	}

	line1Orig := NormalizeAddressLine(original.AddressLine1)
	line1Corr := NormalizeAddressLine(corrected.AddressLine1)
	line2Orig := NormalizeAddressLine(original.AddressLine2)
	line2Corr := NormalizeAddressLine(corrected.AddressLine2)

	if line1Orig == line1Corr {
		// Same street line; any appearing or disappearing unit line is
		// material because it was not absorbed anywhere.
		return line2Orig != line2Corr
	}

	// Unit-merge case: "123 Main St" + "Apt 4" corrected to
	// "123 Main St Apt 4" with an empty line 2. Non-material only when
	// removing the unit text from the corrected line leaves the original
	// street line exactly.
	if line2Orig != "" && line2Corr == "" {
		if idx := strings.Index(line1Corr, line2Orig); idx >= 0 {
			remainder := line1Corr[:idx] + " " + line1Corr[idx+len(line2Orig):]
			if strings.Join(strings.Fields(remainder), " ") == line1Orig {
				return false
			}
		}
	}

	return true
}
