package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// LoginRequest payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest payload for token refresh and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// PrincipalResponse exposes the claims carried by a session token.
type PrincipalResponse struct {
	AccountID   string      `json:"account_id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token        string            `json:"token"`
	TokenType    string            `json:"token_type"`
	ExpiresAt    time.Time         `json:"expires_at"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	Account      PrincipalResponse `json:"account"`
}

// NewPrincipalResponse converts token claims.
func NewPrincipalResponse(p domain.Principal) PrincipalResponse {
	return PrincipalResponse{AccountID: p.AccountID, Email: p.Email, DisplayName: p.DisplayName, Role: p.Role}
}

// NewAuthResponse converts a session.
func NewAuthResponse(s *domain.Session) AuthResponse {
	return AuthResponse{
		Token:        s.AccessToken,
		TokenType:    "Bearer",
		ExpiresAt:    s.ExpiresAt,
		RefreshToken: s.RefreshToken,
		Account:      NewPrincipalResponse(s.Principal),
	}
}
