package dto

import (
	"regexp"
)

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name"`
}

// emailRegex is a simplified RFC 5322 check, stricter than the binding tag
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format more strictly than the binding tag
func (r *RegisterRequest) ValidateEmail() (bool, string) {
	if !emailRegex.MatchString(r.Email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// ValidatePassword validates password length. The 72-byte ceiling is the
// bcrypt input limit.
func (r *RegisterRequest) ValidatePassword() (bool, string) {
	if len(r.Password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(r.Password) > 72 {
		return false, "Password must not exceed 72 characters"
	}
	return true, ""
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	CreatedAt string `json:"created_at"`
}
