package dto

import "time"

// RegisterRequest payload.
type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
	Password   string `json:"password"`
	IsStaff    bool   `json:"is_staff"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse payload.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsStaff     bool   `json:"is_staff"`
}

// ProfileResponse payload.
type ProfileResponse struct {
	UserID     string `json:"user_id"`
	Department string `json:"department"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Department string `json:"department"`
}
