package piv

import (
	"fmt"

	"github.com/cardforge/piv-card/pkg/iso7816"
)

// DISPATCH CONTRACT:
// Every operation is an encoder/decoder pair conforming to the same shape,
// so the surrounding session layer can drive any command through a single
// calling convention: Build the command, hand the bytes to the transport,
// feed the raw reply to the operation's response constructor.

// Command is the build side of the contract. Build is pure and
// deterministic; it validates parameters before assembling any byte and
// never returns a partially built command.
type Command interface {
	Build() (*iso7816.CommandAPDU, error)
}

// Response is the decode side of the contract. Both accessors are
// available regardless of outcome; operation-specific payload accessors
// are defined per response type and guarded by the status.
type Response interface {
	StatusWord() iso7816.StatusWord
	Status() ResponseStatus
}

// response is the shared decoder state embedded by every operation
// response. It borrows the ResponseAPDU for its lifetime and never
// mutates it.
type response struct {
	apdu   *iso7816.ResponseAPDU
	status ResponseStatus
}

// newResponse validates the raw response before any byte inspection and
// classifies its status word under the given override rules.
func newResponse(apdu *iso7816.ResponseAPDU, overrides []statusRule) (response, error) {
	if apdu == nil {
		return response{}, fmt.Errorf("%w: nil response APDU", ErrInvalidInput)
	}
	return response{
		apdu:   apdu,
		status: classify(apdu.Status, overrides),
	}, nil
}

// StatusWord returns the raw SW1||SW2 value, regardless of outcome.
func (r *response) StatusWord() iso7816.StatusWord {
	return r.apdu.Status
}

// Status returns the classified domain status.
func (r *response) Status() ResponseStatus {
	return r.status
}

// body exposes the response bytes preceding the status word. The slice
// borrows from the ResponseAPDU; payload accessors copy before returning.
func (r *response) body() []byte {
	return r.apdu.Data
}

// requireStatus guards payload accessors: querying data under any status
// not listed is a contract violation by the caller.
func (r *response) requireStatus(allowed ...ResponseStatus) error {
	for _, s := range allowed {
		if r.status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: status %v (status word %04X)",
		ErrInvalidOperation, r.status, uint16(r.apdu.Status))
}

// malformed wraps a structural failure, keeping it distinct from the
// wrong-status condition of requireStatus.
func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
