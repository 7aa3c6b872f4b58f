package iso7816

import (
	"bytes"
	"fmt"
)

// APDU (Application Protocol Data Unit) framing according to ISO/IEC 7816-3
// and 7816-4.
//
// COMMAND APDU (C-APDU):
// A command consists of a mandatory 4-byte header (CLA, INS, P1, P2) and an
// optional body (Lc + Data, Le).
//
// ENCODING CASES (ISO 7816-3):
// - Case 1: No Data, No Response (Header only).
// - Case 2: No Data, Response Expected (Header + Le).
// - Case 3: Data Present, No Response (Header + Lc + Data).
// - Case 4: Data Present, Response Expected (Header + Lc + Data + Le).
//
// LENGTH MODES:
//   - Short Length: Lc/Le encoded on 1 byte (Max 255/256).
//   - Extended Length: Lc/Le encoded on multiple bytes (Max 65535/65536).
//     Extended mode is triggered if Nc > 255 or Ne > 256.
//
// RESPONSE APDU (R-APDU):
// An optional body followed by a mandatory 2-byte trailer: SW1 (high byte)
// and SW2 (low byte) of the status word.

// APDU limits according to ISO 7816-3.
const (
	// MaxShortLc is the maximum data length (Nc) encodable in Short Length mode.
	MaxShortLc = 255

	// MaxShortLe is the maximum expected response length (Ne) encodable in
	// Short Length mode. In Short mode, 0x00 encodes 256.
	MaxShortLe = 256

	// MaxExtendedLc is the limit for Lc in Extended mode (16-bit unsigned).
	MaxExtendedLc = 65535

	// MaxExtendedLe is the maximum Ne encodable in Extended Length mode.
	// In Extended mode, 0x0000 encodes 65536.
	MaxExtendedLe = 65536
)

// CommandAPDU represents a command sent to the card.
type CommandAPDU struct {
	Cla  byte
	Ins  byte
	P1   byte
	P2   byte
	Data []byte
	Ne   int // Expected response length (0 means none)
}

// NewCommandAPDU creates a command.
func NewCommandAPDU(cla, ins, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	return &CommandAPDU{
		Cla:  cla,
		Ins:  ins,
		P1:   p1,
		P2:   p2,
		Data: data,
		Ne:   ne,
	}
}

// Bytes encodes the CommandAPDU into its C-APDU byte representation.
// It selects Short or Extended encoding based on Nc and Ne.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	if c.Cla == 0xFF {
		return nil, fmt.Errorf("invalid CLA 0xFF: reserved value")
	}
	if len(c.Data) > MaxExtendedLc {
		return nil, fmt.Errorf("data length %d exceeds extended Lc limit", len(c.Data))
	}
	if c.Ne < 0 || c.Ne > MaxExtendedLe {
		return nil, fmt.Errorf("expected length %d out of range", c.Ne)
	}

	buf := new(bytes.Buffer)

	buf.WriteByte(c.Cla)
	buf.WriteByte(c.Ins)
	buf.WriteByte(c.P1)
	buf.WriteByte(c.P2)

	nc := len(c.Data)
	ne := c.Ne

	isExtended := nc > MaxShortLc || ne > MaxShortLe

	// Lc field and data field
	if nc > 0 {
		if !isExtended {
			buf.WriteByte(byte(nc))
		} else {
			// Extended Lc: 00 flag + 2-byte length
			buf.WriteByte(0x00)
			buf.WriteByte(byte(nc >> 8))
			buf.WriteByte(byte(nc))
		}
		buf.Write(c.Data)
	}

	// Le field
	if ne > 0 {
		if !isExtended {
			if ne == MaxShortLe {
				buf.WriteByte(0x00) // 0x00 encodes 256
			} else {
				buf.WriteByte(byte(ne))
			}
		} else {
			// Case 2 Extended needs a leading 00 to distinguish Le from Lc.
			if nc == 0 {
				buf.WriteByte(0x00)
			}
			if ne == MaxExtendedLe {
				buf.WriteByte(0x00)
				buf.WriteByte(0x00)
			} else {
				buf.WriteByte(byte(ne >> 8))
				buf.WriteByte(byte(ne))
			}
		}
	}

	return buf.Bytes(), nil
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("INS: %02X | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Ins, c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU parses raw bytes received from the card into a
// ResponseAPDU. The input must contain at least the 2 trailer bytes.
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	trailer := len(raw) - 2

	return &ResponseAPDU{
		Data:   raw[:trailer],
		Status: NewStatusWord(raw[trailer], raw[trailer+1]),
	}, nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}
