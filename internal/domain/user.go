package domain

import "time"

// User represents a registered account. Username is the account's identity.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
