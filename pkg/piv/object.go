package piv

import (
	"encoding/hex"
	"strings"
)

// Object identifies a BER-TLV data object on the card: the value carried
// by tag 0x5C in GET DATA and PUT DATA (SP 800-73-4 part 1, table 3).
type Object []byte

// Well-known PIV data objects, plus the YubiKey-specific containers in
// the 0x5FFF00 range.
var (
	ObjectDiscovery              = Object{0x7E}
	ObjectBiometricGroupTemplate = Object{0x7F, 0x61}

	ObjectCapability             = Object{0x5F, 0xC1, 0x07}
	ObjectCHUID                  = Object{0x5F, 0xC1, 0x02}
	ObjectCertAuthentication     = Object{0x5F, 0xC1, 0x05}
	ObjectCertSignature          = Object{0x5F, 0xC1, 0x0A}
	ObjectCertKeyManagement      = Object{0x5F, 0xC1, 0x0B}
	ObjectCertCardAuthentication = Object{0x5F, 0xC1, 0x01}
	ObjectFingerprints           = Object{0x5F, 0xC1, 0x03}
	ObjectSecurity               = Object{0x5F, 0xC1, 0x06}
	ObjectFacialImage            = Object{0x5F, 0xC1, 0x08}
	ObjectPrinted                = Object{0x5F, 0xC1, 0x09}
	ObjectKeyHistory             = Object{0x5F, 0xC1, 0x0C}

	ObjectAdminData       = Object{0x5F, 0xFF, 0x00}
	ObjectAttestationCert = Object{0x5F, 0xFF, 0x01}
)

// String returns the object identifier as upper-case hex.
func (o Object) String() string {
	return strings.ToUpper(hex.EncodeToString(o))
}

// valid reports whether the identifier has the 1 to 3 byte length the
// 0x5C tag accepts.
func (o Object) valid() bool {
	return len(o) >= 1 && len(o) <= 3
}
