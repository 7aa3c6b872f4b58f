package piv

import (
	"bytes"
	"crypto/ecdh"
	"fmt"

	"github.com/cardforge/piv-card/pkg/iso7816"
	"github.com/moov-io/bertlv"
)

// KEY AGREEMENT (INS '87'):
// An ECDH exchange against an asymmetric key slot (SP 800-73-4 part 2,
// §3.2.4, authenticate key agreement template). The host sends the peer's
// uncompressed public point in 7C{82 empty, 85 point}; the card answers
// with the shared secret in 7C{82}. The secret width is fixed by the
// curve: 32 bytes for P-256, 48 for P-384.

// curveParameters fixes the wire widths per supported curve.
var curveParameters = map[Algorithm]struct {
	pointLength  int
	secretLength int
}{
	AlgECCP256: {pointLength: 65, secretLength: 32},
	AlgECCP384: {pointLength: 97, secretLength: 48},
}

// algorithmForCurve maps a crypto/ecdh curve to its PIV identifier.
func algorithmForCurve(curve ecdh.Curve) (Algorithm, error) {
	switch curve {
	case ecdh.P256():
		return AlgECCP256, nil
	case ecdh.P384():
		return AlgECCP384, nil
	default:
		return 0, fmt.Errorf("%w: unsupported curve %v", ErrInvalidArgument, curve)
	}
}

// AuthenticateKeyAgreeCommand performs a Diffie-Hellman key agreement
// between the key in Slot and the peer's public key. The operation
// normally requires prior PIN verification.
type AuthenticateKeyAgreeCommand struct {
	Slot Slot
	Peer *ecdh.PublicKey
}

// Build encodes the command. The algorithm and expected point width
// derive from the peer key's curve.
func (c AuthenticateKeyAgreeCommand) Build() (*iso7816.CommandAPDU, error) {
	switch c.Slot {
	case SlotAuthentication, SlotSignature, SlotKeyManagement, SlotCardAuthentication:
	default:
		return nil, fmt.Errorf("%w: slot %02X holds no asymmetric key", ErrInvalidArgument, byte(c.Slot))
	}
	if c.Peer == nil {
		return nil, fmt.Errorf("%w: nil peer public key", ErrInvalidArgument)
	}

	alg, err := algorithmForCurve(c.Peer.Curve())
	if err != nil {
		return nil, err
	}

	point := c.Peer.Bytes()
	if len(point) != curveParameters[alg].pointLength {
		return nil, fmt.Errorf("%w: public point is %d bytes, want %d",
			ErrInvalidArgument, len(point), curveParameters[alg].pointLength)
	}

	data, err := dynamicAuthTemplate(
		bertlv.TLV{Tag: "82"},
		bertlv.TLV{Tag: "85", Value: point},
	)
	if err != nil {
		return nil, err
	}

	return iso7816.NewCommandAPDU(0x00, insGeneralAuth, byte(alg), byte(c.Slot), data, 0), nil
}

// AuthenticateKeyAgreeResponse is the decoded reply to a key agreement.
type AuthenticateKeyAgreeResponse struct {
	response
	secretLength int
}

// NewAuthenticateKeyAgreeResponse decodes the raw reply to a key
// agreement command. The algorithm selects the exact shared secret width
// the card must have produced.
func NewAuthenticateKeyAgreeResponse(apdu *iso7816.ResponseAPDU, alg Algorithm) (*AuthenticateKeyAgreeResponse, error) {
	params, ok := curveParameters[alg]
	if !ok {
		return nil, fmt.Errorf("%w: algorithm %02X is not a key agreement curve", ErrInvalidArgument, byte(alg))
	}

	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}

	return &AuthenticateKeyAgreeResponse{
		response:     base,
		secretLength: params.secretLength,
	}, nil
}

// GetData returns the shared secret. The declared TLV length and the
// curve's secret width must agree exactly; a mismatch is a malformed
// response, never a truncation or padding.
func (r *AuthenticateKeyAgreeResponse) GetData() ([]byte, error) {
	if err := r.requireStatus(StatusSuccess); err != nil {
		return nil, err
	}

	child, err := dynamicAuthChild(r.body())
	if err != nil {
		return nil, err
	}
	if child.Tag != tagAuthResponse {
		return nil, malformed("unexpected tag %02X inside authentication template", child.Tag)
	}
	if len(child.Value) != r.secretLength {
		return nil, malformed("shared secret is %d bytes, want %d", len(child.Value), r.secretLength)
	}

	return bytes.Clone(child.Value), nil
}
