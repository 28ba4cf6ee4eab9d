package models

import "time"

// User is a stored identity record. PasswordHash is only filled by lookups
// meant for credential checks and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated caller as seen by handlers and services.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Identity strips everything but the public fields.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

// Session is what a successful register/login hands back to the client.
type Session struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
