// Package token issues opaque single-use secrets and computes the digest
// stored in their place.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// secretBytes gives 256 bits of entropy per secret.
const secretBytes = 32

// Issuer implements ports.TokenIssuer.
type Issuer struct{}

func NewIssuer() Issuer { return Issuer{} }

// Issue returns a 64-character hex secret, safe for URL query parameters.
// It panics if the system randomness source fails.
func (Issuer) Issue() string {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		panic("token: crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// Digest returns the SHA-256 hex digest of secret. Unlike password digests
// it is unsalted, so tokens can be looked up by digest equality.
func (Issuer) Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
