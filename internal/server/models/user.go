// Package models defines the persisted data model of the auth server.
package models

import "time"

// User is a stored credential record. PasswordHash never leaves the users
// package; handlers and clients only ever see PublicUser.
type User struct {
	ID           int64
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public strips the credential material from a User.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

// PublicUser is the externally visible projection of a user record.
type PublicUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
