package entity

import "time"

// AccessToken is a persisted personal access token. TokenHash is the SHA-256
// hex digest of the bearer string handed to the client; the bearer itself is
// never stored.
type AccessToken struct {
	ID         string     `db:"id"`
	UserID     int64      `db:"user_id"`
	Name       string     `db:"name"`
	TokenHash  string     `db:"token"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsedAt *time.Time `db:"last_used_at"`
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID  int64
	TokenID string
}
