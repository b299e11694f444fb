package users

import "time"

// User represents a managed user account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Roles        []Role    `json:"roles,omitempty"`
}

// Role is immutable reference data identified by name; the id is internal.
type Role struct {
	ID          int64  `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Assignment links a user to a role, unique per (user, role) pair.
type Assignment struct {
	UserID       int64     `json:"user_id"`
	PermissionID int64     `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
