// api/utils/identity.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashIdentity derives the pseudonymous visitor key from a client address.
// Same address + same salt always yields the same digest, which is what
// makes COUNT(DISTINCT identity_hash) a distinct-visitor count, while the
// address itself cannot be recovered from the stored value.
func HashIdentity(address, salt string) string {
	sum := sha256.Sum256([]byte(address + salt))
	return hex.EncodeToString(sum[:])
}
