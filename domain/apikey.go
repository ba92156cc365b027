package domain

import "time"

// APIKey represents an automation credential bound to a user account.
// Only the SHA-256 digest of the raw key is ever persisted.
type APIKey struct {
	Hash      string     `json:"-"`
	Name      string     `json:"name"`
	UserID    string     `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
	Active    bool       `json:"active"`
}
