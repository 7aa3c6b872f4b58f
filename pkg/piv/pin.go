package piv

import (
	"fmt"

	"github.com/cardforge/piv-card/pkg/bits"
	"github.com/cardforge/piv-card/pkg/iso7816"
)

// PIN handling shared by the VERIFY, CHANGE REFERENCE DATA and RESET
// RETRY COUNTER commands: the reference data encoding (SP 800-73-4 part
// 2, §3.2.1) and the retry counter extraction from the status word.

const (
	minPinLength = 6
	maxPinLength = 8
)

// padPin validates a PIN and pads it to 8 bytes with 0xFF.
func padPin(pin []byte) ([]byte, error) {
	if len(pin) < minPinLength || len(pin) > maxPinLength {
		return nil, fmt.Errorf("%w: PIN length %d, want %d to %d",
			ErrInvalidArgument, len(pin), minPinLength, maxPinLength)
	}

	padded := make([]byte, maxPinLength)
	copy(padded, pin)
	for i := len(pin); i < maxPinLength; i++ {
		padded[i] = 0xFF
	}
	return padded, nil
}

// retryCount implements the shared retry extraction documented on
// VerifyPinResponse.Retries. The count is not a TLV payload: it lives in
// the low nibble of SW2 of the 63CX pattern.
func (r *response) retryCount() (*int, error) {
	switch r.status {
	case StatusSuccess:
		return nil, nil

	case StatusAuthenticationRequired:
		sw := r.apdu.Status

		if sw == iso7816.SW_ERR_AUTH_METHOD_BLOCKED {
			count := 0
			return &count, nil
		}
		if sw.IsRetryCounter() {
			count := sw.RetryCounter()
			return &count, nil
		}
		// Legacy 630X encoding, matched by pinFamilyRules.
		if sw.SW1() == 0x63 && bits.GetRange(sw.SW2(), 8, 5) == 0x00 {
			count := int(bits.GetRange(sw.SW2(), 4, 1))
			return &count, nil
		}
		// 6982: denied without a counter.
		return nil, nil

	default:
		return nil, r.requireStatus(StatusSuccess, StatusAuthenticationRequired)
	}
}

// CHANGE REFERENCE DATA (INS '24'):
// Replaces the PIN or PUK. The command data is the current value followed
// by the new one, each padded to 8 bytes.

// ChangeReferenceCommand changes the PIN or the PUK.
type ChangeReferenceCommand struct {
	// ChangePUK selects the PUK as the reference data; default is the PIN.
	ChangePUK bool
	Current   []byte
	New       []byte
}

// Build encodes the command.
func (c ChangeReferenceCommand) Build() (*iso7816.CommandAPDU, error) {
	current, err := padPin(c.Current)
	if err != nil {
		return nil, err
	}
	updated, err := padPin(c.New)
	if err != nil {
		return nil, err
	}

	ref := refPIN
	if c.ChangePUK {
		ref = refPUK
	}

	return iso7816.NewCommandAPDU(0x00, insChangeReference, 0x00, ref, append(current, updated...), 0), nil
}

// ChangeReferenceResponse is the decoded reply to a CHANGE REFERENCE
// DATA. Retry semantics match VerifyPinResponse: on failure the counter
// refers to the reference data being changed.
type ChangeReferenceResponse struct {
	response
}

// NewChangeReferenceResponse decodes the raw reply to a CHANGE REFERENCE
// DATA command.
func NewChangeReferenceResponse(apdu *iso7816.ResponseAPDU) (*ChangeReferenceResponse, error) {
	base, err := newResponse(apdu, pinFamilyRules)
	if err != nil {
		return nil, err
	}
	return &ChangeReferenceResponse{response: base}, nil
}

// Retries returns the remaining retry count on failure, nil on success.
func (r *ChangeReferenceResponse) Retries() (*int, error) {
	return r.retryCount()
}

// RESET RETRY COUNTER (INS '2C'):
// Unblocks the PIN using the PUK. The command data is the PUK followed by
// the new PIN, each padded to 8 bytes.

// ResetRetryCommand resets the PIN using the PUK.
type ResetRetryCommand struct {
	PUK    []byte
	NewPIN []byte
}

// Build encodes the command.
func (c ResetRetryCommand) Build() (*iso7816.CommandAPDU, error) {
	puk, err := padPin(c.PUK)
	if err != nil {
		return nil, err
	}
	pin, err := padPin(c.NewPIN)
	if err != nil {
		return nil, err
	}

	return iso7816.NewCommandAPDU(0x00, insResetRetry, 0x00, refPIN, append(puk, pin...), 0), nil
}

// ResetRetryResponse is the decoded reply to a RESET RETRY COUNTER. On
// failure the retry counter refers to the PUK.
type ResetRetryResponse struct {
	response
}

// NewResetRetryResponse decodes the raw reply to a RESET RETRY COUNTER
// command.
func NewResetRetryResponse(apdu *iso7816.ResponseAPDU) (*ResetRetryResponse, error) {
	base, err := newResponse(apdu, pinFamilyRules)
	if err != nil {
		return nil, err
	}
	return &ResetRetryResponse{response: base}, nil
}

// Retries returns the remaining PUK retry count on failure, nil on
// success.
func (r *ResetRetryResponse) Retries() (*int, error) {
	return r.retryCount()
}
