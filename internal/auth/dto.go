package auth

import (
	"github.com/MyResellApp/MyResell/internal/users"
)

// LoginRequest is the credential payload. RedirectTo is the guarded path the
// client was bounced from; it is echoed back verbatim on success.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// LoginResponse carries the token pair plus the sanitized user.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	RedirectTo   string         `json:"redirect_to,omitempty"`
	User         *users.UserDTO `json:"user"`
}

// RegisterRequest contains the payload for creating an account.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest rotates a refresh token bound to an expired access token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest carries the mutable profile fields. A non-nil
// Password replaces the stored credential.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}
