package piv

import (
	"github.com/cardforge/piv-card/pkg/iso7816"
)

// VERIFY (INS '20'):
// Presents the PIN to the card. P2 0x80 references the application PIN.
// The PIN is 6 to 8 bytes, padded to 8 with 0xFF on the wire. A VERIFY
// without command data queries the remaining retries non-destructively:
// the card answers 63CX without decrementing the counter.

// VerifyPinCommand verifies the application PIN.
type VerifyPinCommand struct {
	// PIN to present. Nil queries the retry counter without attempting
	// a verification.
	PIN []byte
}

// Build encodes the command.
func (c VerifyPinCommand) Build() (*iso7816.CommandAPDU, error) {
	var data []byte
	if c.PIN != nil {
		padded, err := padPin(c.PIN)
		if err != nil {
			return nil, err
		}
		data = padded
	}

	return iso7816.NewCommandAPDU(0x00, insVerify, 0x00, refPIN, data, 0), nil
}

// VerifyPinResponse is the decoded reply to a VERIFY.
type VerifyPinResponse struct {
	response
}

// NewVerifyPinResponse decodes the raw reply to a VERIFY command.
func NewVerifyPinResponse(apdu *iso7816.ResponseAPDU) (*VerifyPinResponse, error) {
	base, err := newResponse(apdu, pinFamilyRules)
	if err != nil {
		return nil, err
	}
	return &VerifyPinResponse{response: base}, nil
}

// Retries returns the remaining retry count the card reported.
//
// On StatusSuccess the count is absent and the result is nil. On
// StatusAuthenticationRequired the count comes from the low nibble of SW2
// for the 63CX (and legacy 630X) patterns, and is 0 when the
// authentication method is blocked; a 6982 denial carries no counter and
// also yields nil. Any other status is a wrong-state query and fails with
// ErrInvalidOperation.
func (r *VerifyPinResponse) Retries() (*int, error) {
	return r.retryCount()
}
