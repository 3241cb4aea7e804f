package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PresentUser is the redacted view of a user returned to clients.
// Derived on demand, never persisted.
type PresentUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// Present builds the client-safe view of a user. adminEmail is passed in
// explicitly so the admin flag is computable without process environment state.
func Present(u *User, adminEmail string) PresentUser {
	return PresentUser{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		IsAdmin: adminEmail != "" && u.Email == adminEmail,
	}
}
