package piv

import (
	"encoding/binary"

	"github.com/cardforge/piv-card/pkg/iso7816"
)

// GET SERIAL NUMBER (vendor INS 'F8'):
// Returns the device serial number as 4 big-endian bytes immediately
// preceding the status word. No TLV wrapping.

// serialNumberLength is the fixed width of the serial number body.
const serialNumberLength = 4

// GetSerialNumberCommand reads the device serial number.
type GetSerialNumberCommand struct{}

// Build encodes the command: fixed header, no data, no expected response.
func (GetSerialNumberCommand) Build() (*iso7816.CommandAPDU, error) {
	return iso7816.NewCommandAPDU(0x00, insGetSerial, 0x00, 0x00, nil, 0), nil
}

// GetSerialNumberResponse is the decoded reply to a GET SERIAL NUMBER.
type GetSerialNumberResponse struct {
	response
}

// NewGetSerialNumberResponse decodes the raw reply to a GET SERIAL NUMBER
// command.
func NewGetSerialNumberResponse(apdu *iso7816.ResponseAPDU) (*GetSerialNumberResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &GetSerialNumberResponse{response: base}, nil
}

// GetData returns the serial number. A body of any width other than 4
// bytes is a malformed response.
func (r *GetSerialNumberResponse) GetData() (uint32, error) {
	if err := r.requireStatus(StatusSuccess); err != nil {
		return 0, err
	}

	body := r.body()
	if len(body) != serialNumberLength {
		return 0, malformed("serial number body is %d bytes, want %d", len(body), serialNumberLength)
	}

	return binary.BigEndian.Uint32(body), nil
}
