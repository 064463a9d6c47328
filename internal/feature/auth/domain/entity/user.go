// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// It carries identity, profile data and the password hash.
type User struct {
	// ID is an opaque identifier assigned at creation. It never changes.
	ID string

	// FullName is the display name. Only the owner can change it.
	FullName string

	// Email is unique across all users and is stored exactly as given.
	Email string

	// PasswordHash is the salted bcrypt hash of the password.
	// It must never leave the service.
	PasswordHash string

	// ProfileImage is the URL of the avatar held by the media store, empty when unset.
	ProfileImage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public view of a User.
type Profile struct {
	ID           string
	FullName     string
	Email        string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile returns the public fields of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
