package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// AuthHandler exposes login and session endpoints.
type AuthHandler struct {
	auth AuthUseCases
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService AuthUseCases) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewAuthResponse(session))
}

// Refresh handles POST /token/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewAuthResponse(session))
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"logged_out": true})
}

// Home handles GET /home for any authenticated account.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return respond(c, http.StatusOK, fiber.Map{
		"message": "welcome " + principal.DisplayName,
		"account": dto.NewPrincipalResponse(*principal),
	})
}
