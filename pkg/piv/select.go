package piv

import (
	"bytes"
	"fmt"

	"github.com/cardforge/piv-card/pkg/iso7816"
)

// SELECT APPLICATION (INS 'A4'):
// Selects the PIV card application by its AID before any other command of
// the set is accepted. P1 0x04 selects by DF name, P2 0x00 requests the
// first occurrence with FCI returned.

// SelectApplicationCommand selects the PIV application.
type SelectApplicationCommand struct {
	// AID to select. Nil selects the default PIV application identifier.
	AID []byte
}

// Build encodes the command. AIDs must be 5 to 16 bytes (ISO 7816-4).
func (c SelectApplicationCommand) Build() (*iso7816.CommandAPDU, error) {
	aid := c.AID
	if aid == nil {
		aid = AID
	}
	if len(aid) < 5 || len(aid) > 16 {
		return nil, fmt.Errorf("%w: AID length %d, want 5 to 16", ErrInvalidArgument, len(aid))
	}

	return iso7816.NewCommandAPDU(0x00, insSelect, 0x04, 0x00, aid, 0), nil
}

// SelectApplicationResponse is the decoded reply to a SELECT.
type SelectApplicationResponse struct {
	response
}

// NewSelectApplicationResponse decodes the raw reply to a SELECT command.
func NewSelectApplicationResponse(apdu *iso7816.ResponseAPDU) (*SelectApplicationResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &SelectApplicationResponse{response: base}, nil
}

// GetData returns the application property template bytes the card
// answered with. A card without the PIV application yields StatusNoData
// instead of data.
func (r *SelectApplicationResponse) GetData() ([]byte, error) {
	if err := r.requireStatus(StatusSuccess); err != nil {
		return nil, err
	}
	return bytes.Clone(r.body()), nil
}
