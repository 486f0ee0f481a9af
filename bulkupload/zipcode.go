package bulkupload

import (
	"fmt"
	"regexp"
	"strings"

	"portal-backend/models"
)

// The portal books international shipments only, so a receiver zip that looks
// like a domestic (Indian) pin code is a hard reject. A pin code is 6 digits,
// first digit 1-9, and its first two digits must belong to an allotted postal
// circle. The circle list is enumerated rather than range-checked because the
// postal department never allotted some prefixes (90-99 are army post office
// ranges handled separately and must not be treated as domestic here).
var domesticPinPrefixes = map[string]bool{
	// Delhi, Haryana, Punjab, Himachal, J&K
	"11": true, "12": true, "13": true, "14": true, "15": true,
	"16": true, "17": true, "18": true, "19": true,
	// Uttar Pradesh, Uttarakhand
	"20": true, "21": true, "22": true, "23": true, "24": true,
	"25": true, "26": true, "27": true, "28": true,
	// Rajasthan, Gujarat
	"30": true, "31": true, "32": true, "33": true, "34": true,
	"36": true, "37": true, "38": true, "39": true,
	// Maharashtra, Goa, Madhya Pradesh, Chhattisgarh
	"40": true, "41": true, "42": true, "43": true, "44": true,
	"45": true, "46": true, "47": true, "48": true, "49": true,
	// Telangana, Andhra, Karnataka
	"50": true, "51": true, "52": true, "53": true, "56": true,
	"57": true, "58": true, "59": true,
	// Tamil Nadu, Kerala, Lakshadweep
	"60": true, "61": true, "62": true, "63": true, "64": true,
	"65": true, "66": true, "67": true, "68": true, "69": true,
	// West Bengal, Odisha, North East, Sikkim, Andaman
	"70": true, "71": true, "72": true, "73": true, "74": true,
	"75": true, "76": true, "77": true, "78": true, "79": true,
	// Bihar, Jharkhand
	"80": true, "81": true, "82": true, "83": true, "84": true,
	"85": true, "86": true, "87": true, "88": true, "89": true,
}

// Six digits starting 1-9 is the domestic pin code shape; the prefix map
// above decides whether it is actually an allotted circle.
var domesticPinShape = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// International format patterns. Order matters: the UK pattern also matches
// every Canadian code and the generic alphanumeric pattern overlaps with the
// US and Australian ones, so these are always tried top to bottom.
var (
	zipFormatUS        = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
	zipFormatCanada    = regexp.MustCompile(`^[A-Za-z][0-9][A-Za-z] ?[0-9][A-Za-z]{2}$`)
	zipFormatUK        = regexp.MustCompile(`^[A-Za-z]{1,2}[0-9][A-Za-z0-9]? ?[0-9][A-Za-z]{2}$`)
	zipFormatAustralia = regexp.MustCompile(`^[0-9]{4}$`)
	zipFormatGeneric   = regexp.MustCompile(`^[A-Za-z0-9]{3,7}$|^[0-9]{5}$`)
)

// IsDomesticPinCode reports whether the (already trimmed) code matches an
// allotted domestic pin code.
func IsDomesticPinCode(zip string) bool {
	if !domesticPinShape.MatchString(zip) {
		return false
	}
	return domesticPinPrefixes[zip[:2]]
}

// ValidateReceiverZipCode classifies a receiver zip code. Domestic pin codes
// are rejected outright; everything else is matched against the known
// international formats in a fixed order. The returned message is shown to
// the user as-is and also appears in the bulk-upload error summary.
func ValidateReceiverZipCode(raw string) models.ZipValidationResult {
	zip := strings.TrimSpace(raw)
	if zip == "" {
		return models.ZipValidationResult{IsValid: false, Message: "Receiver zip code is required"}
	}

	if IsDomesticPinCode(zip) {
		return models.ZipValidationResult{
			IsValid: false,
			Message: fmt.Sprintf("Domestic pin code %s detected and rejected. Only international shipments can be uploaded through this portal", zip),
		}
	}

	switch {
	case zipFormatUS.MatchString(zip):
		return models.ZipValidationResult{IsValid: true, Message: "Valid US zip code format"}
	case zipFormatCanada.MatchString(zip):
		return models.ZipValidationResult{IsValid: true, Message: "Valid Canadian postal code format"}
	case zipFormatUK.MatchString(zip):
		return models.ZipValidationResult{IsValid: true, Message: "Valid UK postcode format"}
	case zipFormatAustralia.MatchString(zip):
		return models.ZipValidationResult{IsValid: true, Message: "Valid Australian postcode format"}
	case zipFormatGeneric.MatchString(zip):
		return models.ZipValidationResult{IsValid: true, Message: "Valid international postal code format"}
	case len(zip) >= 3:
		return models.ZipValidationResult{IsValid: true, Message: "Accepted as international postal code"}
	default:
		return models.ZipValidationResult{IsValid: false, Message: fmt.Sprintf("Invalid zip code format: %s. Please correct the receiver zip code", zip)}
	}
}

// InferDestinationCountry maps a zip code to a country label for display and
// rate lookup. It deliberately re-runs the same ordered pattern list as
// validation instead of sharing its result: a code accepted through the
// length fallback has no country pattern and gets a blank label, which the
// rate service treats as "zone by destination city".
func InferDestinationCountry(raw string) string {
	zip := strings.TrimSpace(raw)
	if zip == "" || IsDomesticPinCode(zip) {
		return ""
	}

	switch {
	case zipFormatUS.MatchString(zip):
		return "USA"
	case zipFormatCanada.MatchString(zip):
		return "CANADA"
	case zipFormatUK.MatchString(zip):
		return "UK"
	case zipFormatAustralia.MatchString(zip):
		return "AUSTRALIA"
	case zipFormatGeneric.MatchString(zip):
		return "EUROPE"
	default:
		return ""
	}
}
