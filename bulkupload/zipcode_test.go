package bulkupload

import (
	"strings"
	"testing"
)

func TestIsDomesticPinCode(t *testing.T) {
	tests := []struct {
		zip  string
		want bool
	}{
		{"110001", true},  // Delhi
		{"400001", true},  // Mumbai
		{"560001", true},  // Bengaluru
		{"890000", true},  // last allotted prefix
		{"290001", false}, // prefix 29 never allotted
		{"350001", false}, // prefix 35 never allotted
		{"540001", false}, // prefix 54 never allotted
		{"550001", false}, // prefix 55 never allotted
		{"900001", false}, // APO range, not a civilian circle
		{"010001", false}, // leading zero fails the shape
		{"11000", false},  // five digits
		{"1100011", false},
		{"11000a", false},
	}
	for _, tt := range tests {
		if got := IsDomesticPinCode(tt.zip); got != tt.want {
			t.Errorf("IsDomesticPinCode(%q) = %v, want %v", tt.zip, got, tt.want)
		}
	}
}

func TestValidateReceiverZipCode(t *testing.T) {
	tests := []struct {
		name      string
		zip       string
		wantValid bool
		wantMsg   string
	}{
		{"empty", "", false, "Receiver zip code is required"},
		{"whitespace only", "   ", false, "Receiver zip code is required"},
		{"domestic rejected", "110001", false, "Domestic pin code 110001 detected and rejected. Only international shipments can be uploaded through this portal"},
		{"us 5 digit", "10001", true, "Valid US zip code format"},
		{"us zip+4", "10001-1234", true, "Valid US zip code format"},
		{"canada with space", "K1A 0BB", true, "Valid Canadian postal code format"},
		{"canada no space", "M5V3LL", true, "Valid Canadian postal code format"},
		{"real canadian code falls through to length fallback", "K1A 0B1", true, "Accepted as international postal code"},
		{"uk", "SW1A 1AA", true, "Valid UK postcode format"},
		{"australia", "2000", true, "Valid Australian postcode format"},
		{"generic alnum", "75008X", true, "Valid international postal code format"},
		{"unallotted domestic prefix goes international", "290001", true, "Valid international postal code format"},
		{"fallback by length", "12-345", true, "Accepted as international postal code"},
		{"too short", "1?", false, ""},
		{"trimmed before matching", "  10001  ", true, "Valid US zip code format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateReceiverZipCode(tt.zip)
			if got.IsValid != tt.wantValid {
				t.Fatalf("ValidateReceiverZipCode(%q).IsValid = %v, want %v (msg %q)", tt.zip, got.IsValid, tt.wantValid, got.Message)
			}
			if tt.wantMsg != "" && got.Message != tt.wantMsg {
				t.Errorf("ValidateReceiverZipCode(%q).Message = %q, want %q", tt.zip, got.Message, tt.wantMsg)
			}
		})
	}
}

// A Canadian code also satisfies the UK pattern, and a US code also satisfies
// the generic one. The classifier must keep trying formats in order so the
// more specific label wins.
func TestZipFormatOrdering(t *testing.T) {
	if got := ValidateReceiverZipCode("K1A 0BB"); !strings.Contains(got.Message, "Canadian") {
		t.Errorf("expected Canadian label for K1A 0BB, got %q", got.Message)
	}
	if !zipFormatUK.MatchString("K1A 0BB") {
		t.Fatal("test premise broken: UK pattern should also match Canadian codes")
	}
	if got := ValidateReceiverZipCode("10001"); !strings.Contains(got.Message, "US") {
		t.Errorf("expected US label for 10001, got %q", got.Message)
	}
	if got := ValidateReceiverZipCode("2000"); !strings.Contains(got.Message, "Australian") {
		t.Errorf("expected Australian label for 2000, got %q", got.Message)
	}
}

func TestInferDestinationCountry(t *testing.T) {
	tests := []struct {
		zip  string
		want string
	}{
		{"10001", "USA"},
		{"10001-1234", "USA"},
		{"K1A 0BB", "CANADA"},
		{"SW1A 1AA", "UK"},
		{"2000", "AUSTRALIA"},
		{"75008X", "EUROPE"},
		{"12-345", ""}, // length-fallback codes carry no country label
		{"110001", ""}, // domestic never gets a label
		{"", ""},
	}
	for _, tt := range tests {
		if got := InferDestinationCountry(tt.zip); got != tt.want {
			t.Errorf("InferDestinationCountry(%q) = %q, want %q", tt.zip, got, tt.want)
		}
	}
}
