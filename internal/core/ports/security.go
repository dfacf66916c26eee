package ports

// PasswordHasher is a slow, salted one-way function for account passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. Malformed digests
	// simply do not match.
	Verify(plaintext, digest string) bool
}

// TokenIssuer produces high-entropy single-use secrets and their
// deterministic storage digest.
type TokenIssuer interface {
	Issue() string
	Digest(secret string) string
}
