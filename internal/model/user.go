package model

import "time"

// Global and per-team role values.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleGuest  = "guest"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar,omitempty"`
	Role         string    `json:"role"` // admin / member / guest
	CreatedAt    time.Time `json:"createdAt"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember || role == RoleGuest
}
