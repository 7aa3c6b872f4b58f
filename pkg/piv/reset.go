package piv

import (
	"github.com/cardforge/piv-card/pkg/iso7816"
)

// RESET (vendor INS 'FB'):
// Wipes the PIV application: keys, certificates, PIN and PUK return to
// factory state. The card only accepts it once both the PIN and the PUK
// are blocked; otherwise it answers 6985, which classifies as
// StatusConditionsNotSatisfied.

// ResetPivCommand resets the PIV application to factory state.
type ResetPivCommand struct{}

// Build encodes the command: fixed header, no data, no expected response.
func (ResetPivCommand) Build() (*iso7816.CommandAPDU, error) {
	return iso7816.NewCommandAPDU(0x00, insReset, 0x00, 0x00, nil, 0), nil
}

// ResetPivResponse is the decoded reply to a RESET. The operation carries
// no payload; the result exists to validate that the reset occurred.
type ResetPivResponse struct {
	response
}

// NewResetPivResponse decodes the raw reply to a RESET command.
func NewResetPivResponse(apdu *iso7816.ResponseAPDU) (*ResetPivResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &ResetPivResponse{response: base}, nil
}
