package auth

import (
	"github.com/mvalverde/cartfront-backend/internal/users"
)

// SignupRequest is the validated signup payload.
type SignupRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *users.UserDTO `json:"user"`
}

// CreateAdminRequest is the payload for the admin-gated admin creation endpoint.
type CreateAdminRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}
