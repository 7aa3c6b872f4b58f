package bits

import "testing"

func TestBit(t *testing.T) {
	tests := []struct {
		n    uint
		want byte
	}{
		{1, 0b0000_0001},
		{4, 0b0000_1000},
		{8, 0b1000_0000},
		{0, 0}, // out of range
		{9, 0}, // out of range
	}

	for _, tt := range tests {
		if got := Bit(tt.n); got != tt.want {
			t.Errorf("Bit(%d) = %08b, want %08b", tt.n, got, tt.want)
		}
	}
}

func TestIsSetAndSet(t *testing.T) {
	var b byte

	b = Set(b, 5)
	if b != 0b0001_0000 {
		t.Fatalf("Set(0, 5) = %08b", b)
	}

	if !IsSet(b, 5) {
		t.Error("bit 5 should be set")
	}
	if IsSet(b, 4) {
		t.Error("bit 4 should not be set")
	}
}

func TestGetRange(t *testing.T) {
	tests := []struct {
		b         byte
		high, low uint
		want      byte
	}{
		{0b0000_1100, 4, 3, 0b11},       // two-bit field
		{0x63, 8, 5, 0x06},              // high nibble
		{0xC7, 4, 1, 0x07},              // low nibble
		{0b1000_0000, 8, 8, 1},          // single bit
		{0xFF, 3, 4, 0},                 // inverted range
		{0xFF, 9, 1, 0},                 // out of range
	}

	for _, tt := range tests {
		if got := GetRange(tt.b, tt.high, tt.low); got != tt.want {
			t.Errorf("GetRange(%08b, %d, %d) = %d, want %d", tt.b, tt.high, tt.low, got, tt.want)
		}
	}
}
