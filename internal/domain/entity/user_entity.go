package entity

import (
	"time"
)

// User is the aggregate root for the auth domain.
// Password holds the credential exactly as the configured SecretMatcher
// encoded it (plain by default, bcrypt when hashing is enabled).
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	College   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns a copy that is safe to hand back to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
