package piv

import (
	"testing"

	"github.com/cardforge/piv-card/pkg/iso7816"
)

func TestClassify_DefaultTable(t *testing.T) {
	tests := []struct {
		sw   iso7816.StatusWord
		want ResponseStatus
	}{
		{0x9000, StatusSuccess},
		{0x6110, StatusSuccess}, // pending response bytes
		{0x6A82, StatusNoData},
		{0x6A88, StatusNoData},
		{0x6982, StatusAuthenticationRequired},
		{0x6983, StatusAuthenticationRequired},
		{0x63C0, StatusAuthenticationRequired},
		{0x63C5, StatusAuthenticationRequired},
		{0x63CF, StatusAuthenticationRequired},
		{0x6985, StatusConditionsNotSatisfied},

		// everything else
		{0x6400, StatusFailed}, // warning, NVM unchanged
		{0x6A81, StatusFailed}, // function not supported
		{0x6A83, StatusFailed}, // record not found
		{0x6700, StatusFailed},
		{0x6300, StatusFailed}, // legacy retry pattern needs the PIN family override
		{0x6F00, StatusFailed},
		{0x0000, StatusFailed},
		{0xFFFF, StatusFailed},
	}

	for _, tt := range tests {
		if got := classify(tt.sw, nil); got != tt.want {
			t.Errorf("classify(%04X) = %v, want %v", uint16(tt.sw), got, tt.want)
		}
	}
}

func TestClassify_PinFamilyOverrides(t *testing.T) {
	tests := []struct {
		sw   iso7816.StatusWord
		want ResponseStatus
	}{
		{0x6305, StatusAuthenticationRequired}, // legacy retry encoding
		{0x630F, StatusAuthenticationRequired},
		{0x63C2, StatusAuthenticationRequired}, // default rules still consulted
		{0x9000, StatusSuccess},
		{0x6310, StatusFailed}, // outside both retry patterns
	}

	for _, tt := range tests {
		if got := classify(tt.sw, pinFamilyRules); got != tt.want {
			t.Errorf("classify(%04X, pinFamilyRules) = %v, want %v", uint16(tt.sw), got, tt.want)
		}
	}
}

func TestClassify_Total(t *testing.T) {
	// Every 16-bit value must classify without panicking.
	for w := 0; w <= 0xFFFF; w++ {
		_ = classify(iso7816.StatusWord(w), pinFamilyRules)
	}
}
