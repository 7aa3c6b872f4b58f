package piv

import (
	"crypto/sha1"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PIN-DERIVED MANAGEMENT KEY (PIN-only mode):
// Instead of storing the management key off-card, it is re-derived from
// the PIN with PBKDF2-HMAC-SHA1 over a salt kept in the admin data
// object. 10000 iterations and a 24-byte output, matching the scheme
// YubiKey tooling uses for 3DES keys.

const (
	deriveSaltLength = 8
	deriveIterations = 10000
)

// DeriveManagementKey derives the management key from the PIN and the
// 8-byte salt stored in ObjectAdminData.
func DeriveManagementKey(pin []byte, salt []byte) (ManagementKey, error) {
	if len(pin) < minPinLength || len(pin) > maxPinLength {
		return ManagementKey{}, fmt.Errorf("%w: PIN length %d, want %d to %d",
			ErrInvalidArgument, len(pin), minPinLength, maxPinLength)
	}
	if len(salt) != deriveSaltLength {
		return ManagementKey{}, fmt.Errorf("%w: salt length %d, want %d",
			ErrInvalidArgument, len(salt), deriveSaltLength)
	}

	var key ManagementKey
	copy(key[:], pbkdf2.Key(pin, salt, deriveIterations, len(key), sha1.New))
	return key, nil
}
