package model

import "time"

// UserID uniquely identifies a user across the system
type UserID int64

// User is an identity record. The store owns all User records; everything
// else holds at most the ID as a non-owning reference.
type User struct {
	ID           UserID
	Username     string // login username (immutable after creation)
	Email        string
	PasswordHash string // opaque token from the password hasher, never plaintext
	FullName     string
	Bio          string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch is a partial update to a User. Only the fields listed here are
// mutable; nil means "leave unchanged". Username and timestamps are
// deliberately absent.
type UserPatch struct {
	FullName     *string
	Bio          *string
	AvatarURL    *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the patch touches no fields
func (p UserPatch) IsEmpty() bool {
	return p.FullName == nil && p.Bio == nil && p.AvatarURL == nil &&
		p.Email == nil && p.PasswordHash == nil
}

// Apply copies the patch's set fields onto the user
func (p UserPatch) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}
