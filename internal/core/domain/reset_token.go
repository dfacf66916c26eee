package domain

import "time"

// ResetTokenTTL is how long a password reset link stays redeemable.
const ResetTokenTTL = time.Hour

// PasswordResetToken is one issued reset attempt. Only the digest of the
// secret is ever stored; rows are kept after use.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Redeemable reports whether the token can still be used at now.
func (t *PasswordResetToken) Redeemable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
