package users

import "time"

// User is an account that owns pet records. Created at sign-up, read at every
// login; never mutated afterwards.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}
