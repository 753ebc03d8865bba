package domain

import (
	"strings"
	"time"
)

// User is the domain model for authenticated callers. Staff members triage
// and resolve requests; everyone else only submits and views their own.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the full name, falling back to the username when no
// name parts are set.
func (u *User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// Profile carries per-user attributes owned by the identity collaborator.
// It is provisioned explicitly during registration.
type Profile struct {
	UserID     string
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
