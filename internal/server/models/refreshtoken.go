package models

import "time"

// RefreshToken is the single active refresh token for a (UserID, DeviceID)
// pair. Logging in again on the same device replaces Token and ExpiresAt.
type RefreshToken struct {
	UserID    string
	DeviceID  string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is no longer usable at now. A token
// whose expiry equals now is expired.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
