package piv

import (
	"bytes"
	"fmt"

	"github.com/cardforge/piv-card/pkg/iso7816"
	"github.com/moov-io/bertlv"
)

// GET DATA (INS 'CB'):
// Retrieves a BER-TLV data object. P1P2 0x3FFF addresses the current
// application; the object is named by a tag 0x5C in the command data.

// GetDataCommand retrieves a data object from the card.
type GetDataCommand struct {
	Object Object
}

// Build encodes the command.
func (c GetDataCommand) Build() (*iso7816.CommandAPDU, error) {
	if !c.Object.valid() {
		return nil, fmt.Errorf("%w: object identifier %s, want 1 to 3 bytes", ErrInvalidArgument, c.Object)
	}

	data, err := bertlv.Encode([]bertlv.TLV{{Tag: "5C", Value: c.Object}})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding object identifier: %v", ErrInvalidArgument, err)
	}

	return iso7816.NewCommandAPDU(0x00, insGetData, 0x3F, 0xFF, data, 0), nil
}

// GetDataResponse is the decoded reply to a GET DATA.
type GetDataResponse struct {
	response
}

// NewGetDataResponse decodes the raw reply to a GET DATA command.
// A StatusNoData reply (object absent) constructs fine; it just carries
// no payload.
func NewGetDataResponse(apdu *iso7816.ResponseAPDU) (*GetDataResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &GetDataResponse{response: base}, nil
}

// GetData returns the object bytes exactly as the card sent them: the
// full response body minus the status word, nothing stripped or
// reinterpreted. Unwrapping the 0x53 envelope is the caller's business,
// e.g. via pkg/tlv.
func (r *GetDataResponse) GetData() ([]byte, error) {
	if err := r.requireStatus(StatusSuccess); err != nil {
		return nil, err
	}
	return bytes.Clone(r.body()), nil
}
