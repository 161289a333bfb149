package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
