package domain

import "time"

// User is the domain entity for a user account.
// PasswordHash never leaves the service layer.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
