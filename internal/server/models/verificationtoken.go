package models

import "time"

// VerificationToken proves control of a user's email address.
type VerificationToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is no longer usable at now. A token
// whose expiry equals now is expired.
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
