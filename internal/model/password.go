package model

import "time"

// PasswordResetToken is a single-use credential for changing a password.
type PasswordResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}

// ForgotPasswordRequest asks for a reset link to be mailed to Email.
type ForgotPasswordRequest struct {
	Email            string `json:"email" validate:"required,email"`
	ResetPasswordURL string `json:"resetPasswordUrl" validate:"required"`
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=4,max=255"`
}
