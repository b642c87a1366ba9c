package models

import (
	"fmt"
	"strings"
)

// Role is the account role reported by the API
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Profile is the canonical user shape kept in the local session.
// Login responses omit Email and current-user responses may omit IsVerified;
// the session bindings fill those gaps before storing.
type Profile struct {
	PID        string `json:"pid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
	Role       Role   `json:"role"`
}

// IsAdmin reports whether the profile carries the Admin role
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ParseRole converts a case-insensitive role name
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
