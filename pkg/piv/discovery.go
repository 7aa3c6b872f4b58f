package piv

import (
	"fmt"

	"github.com/cardforge/piv-card/pkg/tlv"
)

// DiscoveryObject is the stored data object 0x7E: the PIV application AID
// and the PIN usage policy (SP 800-73-4 part 1, table 18).
type DiscoveryObject struct {
	AID            []byte `tlv:"4F"`
	PINUsagePolicy []byte `tlv:"5F2F"`
}

// PrimaryPINIsGlobal reports whether the policy names the global PIN,
// rather than the application PIN, as the primary one.
func (d *DiscoveryObject) PrimaryPINIsGlobal() bool {
	return len(d.PINUsagePolicy) == 2 && d.PINUsagePolicy[1] == 0x20
}

// ParseDiscoveryObject parses the body a GET DATA for ObjectDiscovery
// returned: an interindustry template 0x7E wrapping the AID (0x4F) and
// the PIN usage policy (0x5F2F).
func ParseDiscoveryObject(data []byte) (*DiscoveryObject, error) {
	body, err := tlv.GetValue(data, tagDiscoveryObject)
	if err != nil {
		return nil, malformed("discovery object envelope: %v", err)
	}

	var d DiscoveryObject
	if err := tlv.Unmarshal(body, &d); err != nil {
		return nil, malformed("discovery object content: %v", err)
	}

	if len(d.AID) == 0 {
		return nil, malformed("discovery object misses the application AID")
	}
	if len(d.PINUsagePolicy) != 2 {
		return nil, fmt.Errorf("%w: PIN usage policy is %d bytes, want 2", ErrMalformedResponse, len(d.PINUsagePolicy))
	}

	return &d, nil
}
