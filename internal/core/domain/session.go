package domain

import "time"

// SessionTTL is the absolute lifetime of a login session.
const SessionTTL = 24 * time.Hour

// Session is the account snapshot bound to a browser at login time. It is
// not refreshed when the account's role changes later.
type Session struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the session has outlived its absolute TTL.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
