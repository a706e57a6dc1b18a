package models

import "time"

// User is a user record as returned by the remote API.
type User struct {
	ID              string     `json:"_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Mobile          string     `json:"mobile,omitempty"`
	Image           string     `json:"image,omitempty"`
	Role            string     `json:"role"`
	IsBlocked       bool       `json:"isBlocked"`
	IsEmailVerified bool       `json:"isEmailverifyed"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

type UserPage struct {
	Users      []User `json:"users"`
	TotalPages int    `json:"totalPages"`
}

// UserPatch carries the back-office toggles. Nil fields are left out of the request.
type UserPatch struct {
	IsBlocked       *bool `json:"isBlocked,omitempty"`
	IsEmailVerified *bool `json:"isEmailverifyed,omitempty"`
}
