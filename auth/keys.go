package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// signingKeySize is the size in bytes of a generated signing key.
const signingKeySize = 32

// SigningKey is the symmetric key used to sign and verify tokens.
//
// The key is generated (or loaded) once at process start and never rotated;
// every token issued under a key verifies only against that key, so losing
// or regenerating the key invalidates all outstanding tokens. A SigningKey
// is read-only after construction and safe for unsynchronized concurrent
// reads.
type SigningKey []byte

// NewSigningKey generates a random signing key.
func NewSigningKey() (SigningKey, error) {
	key := make([]byte, signingKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return SigningKey(key), nil
}

// ParseSigningKey decodes a hex-encoded signing key.
func ParseSigningKey(s string) (SigningKey, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	if len(key) < signingKeySize {
		return nil, fmt.Errorf("parse signing key: %d bytes, need at least %d", len(key), signingKeySize)
	}
	return SigningKey(key), nil
}

// String redacts the key material so it cannot leak through formatting.
func (k SigningKey) String() string {
	return "[REDACTED]"
}
