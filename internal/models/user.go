// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Posts reference users as authors;
// engagement entries reference them when the actor is authenticated.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Bio          string    `json:"bio"`
	ProfilePhotoURL string `json:"profilePhoto,omitempty"`
	// ProfilePhotoKey is the object-storage key of the current photo,
	// kept so a replacement upload can delete the previous object.
	ProfilePhotoKey string     `json:"-"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AuthorSummary is the read-time join attached to posts for display.
type AuthorSummary struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
}

// Summary returns the author view of a user.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfilePhoto: u.ProfilePhotoURL,
	}
}
