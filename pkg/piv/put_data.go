package piv

import (
	"fmt"

	"github.com/cardforge/piv-card/pkg/iso7816"
	"github.com/moov-io/bertlv"
)

// PUT DATA (INS 'DB'):
// Stores a BER-TLV data object. The command data names the object with
// tag 0x5C and carries the new content wrapped in tag 0x53. An empty
// content deletes the object.

// maxObjectLength bounds the stored object so the whole command stays
// encodable in an extended APDU.
const maxObjectLength = 0xFF00

// PutDataCommand writes a data object to the card. The operation requires
// prior management key authentication; without it the card answers with
// a status classifying as StatusAuthenticationRequired.
type PutDataCommand struct {
	Object Object
	Data   []byte
}

// Build encodes the command.
func (c PutDataCommand) Build() (*iso7816.CommandAPDU, error) {
	if !c.Object.valid() {
		return nil, fmt.Errorf("%w: object identifier %s, want 1 to 3 bytes", ErrInvalidArgument, c.Object)
	}
	if len(c.Data) > maxObjectLength {
		return nil, fmt.Errorf("%w: object content %d bytes exceeds %d", ErrInvalidArgument, len(c.Data), maxObjectLength)
	}

	data, err := bertlv.Encode([]bertlv.TLV{
		{Tag: "5C", Value: c.Object},
		{Tag: "53", Value: c.Data},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding object: %v", ErrInvalidArgument, err)
	}

	return iso7816.NewCommandAPDU(0x00, insPutData, 0x3F, 0xFF, data, 0), nil
}

// PutDataResponse is the decoded reply to a PUT DATA. The operation is
// write-only; the result surfaces status information only.
type PutDataResponse struct {
	response
}

// NewPutDataResponse decodes the raw reply to a PUT DATA command.
func NewPutDataResponse(apdu *iso7816.ResponseAPDU) (*PutDataResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &PutDataResponse{response: base}, nil
}
