package model

import "time"

// User represents a registered account. PasswordHash and the reset-token
// fields never leave the data layer in API responses.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	// ResetTokenHash holds the SHA-256 digest of the outstanding password
	// reset token, empty when no reset is pending.
	ResetTokenHash    string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
