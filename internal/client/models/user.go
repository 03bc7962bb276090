// Package models holds the client-side views of the backend's JSON
// payloads.
package models

// User is the authenticated account as returned by the auth endpoints.
// Optional timestamps are left empty when the backend omits them.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// AuthResponse is the body of a successful signup or login.
type AuthResponse struct {
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}
