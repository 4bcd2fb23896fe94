package models

import (
	"time"

	"github.com/google/uuid"
)

// User holds the display information for a participant id.
// Credentials live with the external identity provider, not here.
type User struct {
	// ID is the opaque participant id used in bills and summaries.
	ID string

	// DisplayName is the name shown next to balances.
	DisplayName string

	// Email is the contact address from the caller's token, if any.
	Email string

	// CreatedAt is the Unix timestamp when the user was first seen.
	CreatedAt int64
}

// NewUser creates a User with a fresh id.
func NewUser(email, displayName string) *User {
	return &User{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   time.Now().Unix(),
	}
}
