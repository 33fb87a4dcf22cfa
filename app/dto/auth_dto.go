package dto

import "time"

// LoginRequest represents a staff login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"staff@rentalworks.example.com"`
	Password string `json:"password" validate:"required,min=8" example:"SecurePass123"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Message      string   `json:"message"`
	Staff        StaffDTO `json:"staff"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// RefreshTokenRequest represents a token refresh attempt
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse represents a successful token refresh
type RefreshTokenResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// StaffDTO is the public representation of a staff account
type StaffDTO struct {
	UUID        string     `json:"uuid"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
