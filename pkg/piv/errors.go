package piv

import "errors"

// Failure kinds of the protocol layer. Every error returned by this
// package wraps exactly one of these sentinels, so callers and tests can
// assert on the kind with errors.Is.
var (
	// ErrInvalidInput marks an absent required input, e.g. constructing a
	// response decoder from a nil ResponseAPDU.
	ErrInvalidInput = errors.New("piv: invalid input")

	// ErrInvalidArgument marks command parameters that fail validation
	// before encoding, e.g. an out-of-range PIN length.
	ErrInvalidArgument = errors.New("piv: invalid argument")

	// ErrInvalidOperation marks a payload query under a status that does
	// not authorize it. This is a usage bug in the caller, not a device
	// condition.
	ErrInvalidOperation = errors.New("piv: invalid operation for response status")

	// ErrMalformedResponse marks response bytes that violate the expected
	// TLV or length structure. The status authorized data, but the bytes
	// are unparsable.
	ErrMalformedResponse = errors.New("piv: malformed response")
)
