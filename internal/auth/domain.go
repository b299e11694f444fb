package auth

import "time"

// User represents an account able to authenticate.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
