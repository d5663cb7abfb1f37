package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the session token for browser clients
const SessionCookieName = "session"

// CreateUserRequest is the registration payload
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

// LoginRequest is the email/password login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest changes the caller's password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// User is the public view of an account (no password material)
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse is returned by register and login
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LogoutResponse is returned by logout
type LogoutResponse struct {
	Success bool `json:"success"`
}
