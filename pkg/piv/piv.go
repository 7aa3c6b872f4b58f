package piv

import (
	"fmt"

	"github.com/moov-io/bertlv"
)

// AID is the application identifier of the PIV card application
// (NIST SP 800-73-4).
var AID = []byte{0xA0, 0x00, 0x00, 0x03, 0x08}

// Instruction bytes of the PIV command set. The 0xF7-0xFF range is
// vendor-specific (YubiKey), the rest is ISO 7816-4 / SP 800-73-4.
const (
	insSelect          = 0xA4
	insVerify          = 0x20
	insChangeReference = 0x24
	insResetRetry      = 0x2C
	insGeneralAuth     = 0x87
	insGetData         = 0xCB
	insPutData         = 0xDB

	insGetSerial  = 0xF8
	insReset      = 0xFB
	insGetVersion = 0xFD
)

// insNames maps instruction bytes to the command names used in
// diagnostics.
var insNames = map[byte]string{
	insSelect:          "SELECT APPLICATION",
	insVerify:          "VERIFY",
	insChangeReference: "CHANGE REFERENCE DATA",
	insResetRetry:      "RESET RETRY COUNTER",
	insGeneralAuth:     "GENERAL AUTHENTICATE",
	insGetData:         "GET DATA",
	insPutData:         "PUT DATA",
	insGetSerial:       "GET SERIAL NUMBER",
	insReset:           "RESET",
	insGetVersion:      "GET VERSION",
}

// InsName returns the human-readable name of a PIV instruction byte.
func InsName(ins byte) string {
	if name, ok := insNames[ins]; ok {
		return name
	}
	return fmt.Sprintf("INS %02X", ins)
}

// Algorithm identifies a cryptographic algorithm as encoded in P1 of
// GENERAL AUTHENTICATE and in key metadata (SP 800-78-4 plus vendor
// extensions).
type Algorithm byte

const (
	Alg3DES    Algorithm = 0x03
	AlgRSA1024 Algorithm = 0x06
	AlgRSA2048 Algorithm = 0x07
	AlgAES128  Algorithm = 0x08
	AlgAES192  Algorithm = 0x0A
	AlgAES256  Algorithm = 0x0C
	AlgECCP256 Algorithm = 0x11
	AlgECCP384 Algorithm = 0x14
)

// Slot references a key slot on the card (P2 of GENERAL AUTHENTICATE).
type Slot byte

const (
	SlotAuthentication     Slot = 0x9A
	SlotCardManagement     Slot = 0x9B
	SlotSignature          Slot = 0x9C
	SlotKeyManagement      Slot = 0x9D
	SlotCardAuthentication Slot = 0x9E
)

// PIN references (P2 of VERIFY and CHANGE REFERENCE DATA).
const (
	refPIN byte = 0x80
	refPUK byte = 0x81
)

// TLV tags of the dynamic authentication template (SP 800-73-4 part 2)
// and of the data object commands.
const (
	tagDynamicAuth     = 0x7C
	tagAuthWitness     = 0x80
	tagAuthChallenge   = 0x81
	tagAuthResponse    = 0x82
	tagAuthExponent    = 0x85
	tagObjectID        = 0x5C
	tagObjectData      = 0x53
	tagDiscoveryObject = 0x7E
)

// dynamicAuthTemplate encodes a 0x7C dynamic authentication template
// wrapping the given children, in the order supplied.
func dynamicAuthTemplate(children ...bertlv.TLV) ([]byte, error) {
	inner, err := bertlv.Encode(children)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding auth template body: %v", ErrInvalidArgument, err)
	}

	data, err := bertlv.Encode([]bertlv.TLV{{Tag: "7C", Value: inner}})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding auth template: %v", ErrInvalidArgument, err)
	}
	return data, nil
}
