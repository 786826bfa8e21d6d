package auth

import "github.com/quadworks/storefront/internal/users"

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// LoginRequest carries the credentials for an email/password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh token. The access token may be expired
// but must be otherwise valid; its jti identifies the session.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the issued credential set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}
