package iso7816

import (
	"strings"
	"testing"
)

func TestStatusWord_Bytes(t *testing.T) {
	sw := NewStatusWord(0x63, 0xC5)

	if sw != 0x63C5 {
		t.Fatalf("NewStatusWord = %04X, want 63C5", uint16(sw))
	}
	if sw.SW1() != 0x63 || sw.SW2() != 0xC5 {
		t.Errorf("SW1/SW2 = %02X/%02X, want 63/C5", sw.SW1(), sw.SW2())
	}
}

func TestStatusWord_RetryCounter(t *testing.T) {
	tests := []struct {
		sw        StatusWord
		isCounter bool
		count     int
	}{
		{NewStatusWord(0x63, 0xC0), true, 0},  // Counter 0
		{NewStatusWord(0x63, 0xC5), true, 5},  // Counter 5
		{NewStatusWord(0x63, 0xCF), true, 15}, // Counter 15
		{NewStatusWord(0x63, 0x00), false, 0}, // Not a counter
		{NewStatusWord(0x63, 0x81), false, 0}, // File filled
		{NewStatusWord(0x90, 0x00), false, 0},
	}

	for _, tt := range tests {
		if got := tt.sw.IsRetryCounter(); got != tt.isCounter {
			t.Errorf("SW %04X IsRetryCounter = %v, want %v", uint16(tt.sw), got, tt.isCounter)
		}
		if tt.isCounter {
			if got := tt.sw.RetryCounter(); got != tt.count {
				t.Errorf("SW %04X RetryCounter = %d, want %d", uint16(tt.sw), got, tt.count)
			}
		}
	}
}

func TestStatusWord_Categories(t *testing.T) {
	tests := []struct {
		sw        StatusWord
		isSuccess bool
		isWarning bool
		isError   bool
	}{
		{SW_NO_ERROR, true, false, false},
		{NewStatusWord(0x61, 0x10), true, false, false}, // Bytes available
		{NewStatusWord(0x63, 0xC2), false, true, false}, // Counter
		{SW_ERR_WRONG_LENGTH, false, false, true},
		{SW_ERR_FILE_NOT_FOUND, false, false, true},
		{SW_ERR_SECURITY_STATUS_NOT_SAT, false, false, true},
	}

	for _, tt := range tests {
		if got := tt.sw.IsSuccess(); got != tt.isSuccess {
			t.Errorf("SW %04X IsSuccess = %v, want %v", uint16(tt.sw), got, tt.isSuccess)
		}
		if got := tt.sw.IsWarning(); got != tt.isWarning {
			t.Errorf("SW %04X IsWarning = %v, want %v", uint16(tt.sw), got, tt.isWarning)
		}
		if got := tt.sw.IsError(); got != tt.isError {
			t.Errorf("SW %04X IsError = %v, want %v", uint16(tt.sw), got, tt.isError)
		}
	}
}

func TestStatusWord_Verbose(t *testing.T) {
	tests := []struct {
		sw       StatusWord
		contains string
	}{
		{NewStatusWord(0x63, 0xC3), "counter = 3"},
		{NewStatusWord(0x61, 0x20), "32 bytes available"},
		{NewStatusWord(0x6C, 0x05), "correct Le is 5"},
		{SW_ERR_FILE_NOT_FOUND, "SW_ERR_FILE_NOT_FOUND"},
		{SW_ERR_AUTH_METHOD_BLOCKED, "SW_ERR_AUTH_METHOD_BLOCKED"},
		{NewStatusWord(0x69, 0x99), "Command not allowed"}, // uncataloged, category fallback
	}

	for _, tt := range tests {
		got := tt.sw.Verbose()
		if !strings.Contains(got, tt.contains) {
			t.Errorf("Verbose(%04X) = %q; want containing %q", uint16(tt.sw), got, tt.contains)
		}
	}
}
