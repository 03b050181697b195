package model

import "time"

// Session is a row in api_tokens. TokenID is the jti of the issued bearer token.
type Session struct {
	ID        int64
	UserID    int64
	TokenID   string
	Type      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse describes an issued bearer token.
type TokenResponse struct {
	Type      string    `json:"type"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthResponse represents an authentication response with a token and user info.
type AuthResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}
