/*
Package piv implements the command/response protocol layer of the PIV
(Personal Identity Verification) smart-card application over ISO 7816 APDUs.

The package turns typed operations (verify PIN, retrieve or store data
objects, authenticate the management key, perform key agreement, read the
serial number, reset the application) into command APDUs, and turns raw
response APDUs back into typed, validated results.

# Calling convention

Every operation is a Command/Response pair sharing one contract:

	cmd := piv.GetDataCommand{Object: piv.ObjectDiscovery}
	apdu, err := cmd.Build()
	// ... hand apdu to the transport, receive a ResponseAPDU back ...
	resp, err := piv.NewGetDataResponse(responseAPDU)
	if resp.Status() == piv.StatusSuccess {
	    data, err := resp.GetData()
	    // ...
	}

Commands are pure and deterministic: identical inputs produce byte-identical
APDUs, and parameter validation happens before any byte is assembled.
Responses classify the status word into a small ResponseStatus enum and only
expose their payload when the status authorizes it.

# Failure kinds

The device saying "no" is not an error: denial, required authentication and
unsatisfied conditions are ordinary ResponseStatus values the caller
branches on. Errors are reserved for broken usage or broken bytes and are
distinguishable with errors.Is: ErrInvalidInput, ErrInvalidArgument,
ErrInvalidOperation and ErrMalformedResponse.

# Trust boundary

Response payloads originate from an external, only partially trusted
device. All TLV parsing of response bodies goes through the strict reader
in pkg/tlv, and every payload accessor returns a caller-owned copy, never a
view into the response buffer.
*/
package piv
