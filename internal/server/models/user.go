// Package models defines server-side data models persisted in the database
// or passed between the service and transport layers.
package models

import "time"

// User is a registered account. TenantName is derived from UserName at
// registration and never changes afterwards.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	TenantName   string
	CreatedAt    time.Time
}

// PublicProfile is the subset of User safe to return to clients.
type PublicProfile struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Profile() PublicProfile {
	return PublicProfile{ID: u.ID, UserName: u.UserName, Email: u.Email}
}
