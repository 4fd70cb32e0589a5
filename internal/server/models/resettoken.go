package models

import "time"

// ResetToken authorizes a single password change until ExpiresAt.
type ResetToken struct {
	Token     string
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token can no longer be used at now.
func (t ResetToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
