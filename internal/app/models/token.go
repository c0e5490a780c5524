package models

import "time"

// RefreshToken defines a persisted refresh token based on the 'refresh_tokens' table
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	Role      RoleType  `json:"role" db:"role"`
	AccountID int64     `json:"accountId" db:"account_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Expired reports whether the token is past its expiry
func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
