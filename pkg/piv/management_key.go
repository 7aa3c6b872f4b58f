package piv

import (
	"bytes"
	"fmt"

	"github.com/cardforge/piv-card/pkg/iso7816"
	"github.com/cardforge/piv-card/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// MANAGEMENT KEY AUTHENTICATION (INS '87', slot 0x9B):
// A witness/challenge exchange inside 0x7C dynamic authentication
// templates (SP 800-73-4 part 2, §3.2.4):
//
//   Initialize, mutual:  host sends 7C{80 empty}; the card answers with
//     an encrypted witness in 7C{80}.
//   Initialize, single:  host sends 7C{81 empty}; the card answers with
//     a plain challenge in 7C{81}.
//   Complete, mutual:    host sends 7C{80 decrypted witness, 81 host
//     challenge}; the card proves itself by answering 7C{82 encrypted
//     host challenge}.
//   Complete, single:    host sends the encrypted challenge in 7C{82};
//     the card answers with a bare status word.
//
// The cipher (3DES or AES) is named by P1 and never executed here: this
// layer moves the challenge bytes, the caller runs the block cipher.

// ManagementKey is the symmetric key authenticating administrative
// operations on the PIV application.
type ManagementKey [24]byte

// DefaultManagementKey is the factory-state 3DES management key.
var DefaultManagementKey = ManagementKey{
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
}

// managementKeyAlgorithm reports whether alg names a symmetric cipher
// usable for the management key.
func managementKeyAlgorithm(alg Algorithm) bool {
	switch alg {
	case Alg3DES, AlgAES128, AlgAES192, AlgAES256:
		return true
	default:
		return false
	}
}

// InitializeAuthenticateManagementKeyCommand starts the witness/challenge
// exchange against the management key slot.
type InitializeAuthenticateManagementKeyCommand struct {
	Algorithm Algorithm

	// MutualAuth requests a witness (card proves itself too) instead of
	// a bare challenge.
	MutualAuth bool
}

// Build encodes the command.
func (c InitializeAuthenticateManagementKeyCommand) Build() (*iso7816.CommandAPDU, error) {
	if !managementKeyAlgorithm(c.Algorithm) {
		return nil, fmt.Errorf("%w: algorithm %02X is not a management key cipher", ErrInvalidArgument, byte(c.Algorithm))
	}

	inner := "81"
	if c.MutualAuth {
		inner = "80"
	}

	data, err := dynamicAuthTemplate(bertlv.TLV{Tag: inner})
	if err != nil {
		return nil, err
	}

	return iso7816.NewCommandAPDU(0x00, insGeneralAuth, byte(c.Algorithm), byte(SlotCardManagement), data, 0), nil
}

// InitializeAuthenticateManagementKeyResponse is the decoded reply to the
// exchange's first step.
type InitializeAuthenticateManagementKeyResponse struct {
	response
}

// NewInitializeAuthenticateManagementKeyResponse decodes the raw reply to
// an initialize-authentication command.
func NewInitializeAuthenticateManagementKeyResponse(apdu *iso7816.ResponseAPDU) (*InitializeAuthenticateManagementKeyResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &InitializeAuthenticateManagementKeyResponse{response: base}, nil
}

// GetData returns the card's opening move: mutual reports whether the
// card sent a witness (tag 0x80, mutual auth) or a plain challenge (tag
// 0x81, single auth), and challenge holds a copy of its bytes. Any other
// template shape is a malformed response.
func (r *InitializeAuthenticateManagementKeyResponse) GetData() (mutual bool, challenge []byte, err error) {
	if err := r.requireStatus(StatusSuccess); err != nil {
		return false, nil, err
	}

	child, err := dynamicAuthChild(r.body())
	if err != nil {
		return false, nil, err
	}

	switch child.Tag {
	case tagAuthWitness:
		mutual = true
	case tagAuthChallenge:
		mutual = false
	default:
		return false, nil, malformed("unexpected tag %02X inside authentication template", child.Tag)
	}

	return mutual, bytes.Clone(child.Value), nil
}

// CompleteAuthenticateManagementKeyCommand finishes the exchange. For
// mutual authentication set WitnessResponse and Challenge; for single
// authentication set ChallengeResponse only.
type CompleteAuthenticateManagementKeyCommand struct {
	Algorithm Algorithm

	// WitnessResponse is the decrypted card witness (tag 0x80).
	WitnessResponse []byte

	// Challenge is the host challenge the card must encrypt (tag 0x81).
	Challenge []byte

	// ChallengeResponse is the encrypted card challenge (tag 0x82).
	ChallengeResponse []byte
}

// Build encodes the command.
func (c CompleteAuthenticateManagementKeyCommand) Build() (*iso7816.CommandAPDU, error) {
	if !managementKeyAlgorithm(c.Algorithm) {
		return nil, fmt.Errorf("%w: algorithm %02X is not a management key cipher", ErrInvalidArgument, byte(c.Algorithm))
	}

	mutual := len(c.WitnessResponse) > 0 || len(c.Challenge) > 0
	single := len(c.ChallengeResponse) > 0

	var children []bertlv.TLV
	switch {
	case mutual && !single:
		if len(c.WitnessResponse) == 0 || len(c.Challenge) == 0 {
			return nil, fmt.Errorf("%w: mutual auth needs both witness response and challenge", ErrInvalidArgument)
		}
		children = []bertlv.TLV{
			{Tag: "80", Value: c.WitnessResponse},
			{Tag: "81", Value: c.Challenge},
		}

	case single && !mutual:
		children = []bertlv.TLV{
			{Tag: "82", Value: c.ChallengeResponse},
		}

	default:
		return nil, fmt.Errorf("%w: set witness response and challenge, or challenge response, not both", ErrInvalidArgument)
	}

	data, err := dynamicAuthTemplate(children...)
	if err != nil {
		return nil, err
	}

	return iso7816.NewCommandAPDU(0x00, insGeneralAuth, byte(c.Algorithm), byte(SlotCardManagement), data, 0), nil
}

// CompleteAuthenticateManagementKeyResponse is the decoded reply to the
// exchange's second step.
type CompleteAuthenticateManagementKeyResponse struct {
	response
}

// NewCompleteAuthenticateManagementKeyResponse decodes the raw reply to a
// complete-authentication command.
func NewCompleteAuthenticateManagementKeyResponse(apdu *iso7816.ResponseAPDU) (*CompleteAuthenticateManagementKeyResponse, error) {
	base, err := newResponse(apdu, nil)
	if err != nil {
		return nil, err
	}
	return &CompleteAuthenticateManagementKeyResponse{response: base}, nil
}

// GetData returns the card's proof for mutual authentication: the
// encrypted host challenge from 7C{82}, which the caller compares against
// its own encryption. Single authentication ends with an empty body and
// yields nil.
func (r *CompleteAuthenticateManagementKeyResponse) GetData() ([]byte, error) {
	if err := r.requireStatus(StatusSuccess); err != nil {
		return nil, err
	}

	body := r.body()
	if len(body) == 0 {
		return nil, nil
	}

	child, err := dynamicAuthChild(body)
	if err != nil {
		return nil, err
	}
	if child.Tag != tagAuthResponse {
		return nil, malformed("unexpected tag %02X inside authentication template", child.Tag)
	}

	return bytes.Clone(child.Value), nil
}

// dynamicAuthChild parses a response body as a 0x7C dynamic
// authentication template holding exactly one child node.
func dynamicAuthChild(body []byte) (tlv.Node, error) {
	outer, err := tlv.ParseOne(body)
	if err != nil {
		return tlv.Node{}, malformed("%v", err)
	}
	if outer.Tag != tagDynamicAuth {
		return tlv.Node{}, malformed("outer tag %02X, want %02X", outer.Tag, tagDynamicAuth)
	}

	children, err := outer.Children()
	if err != nil {
		return tlv.Node{}, malformed("%v", err)
	}
	if len(children) != 1 {
		return tlv.Node{}, malformed("%d children inside authentication template, want 1", len(children))
	}

	return children[0], nil
}
