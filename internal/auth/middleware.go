package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

const (
	principalKey = "auth_principal"
	bearerPrefix = "Bearer "
)

type principalCtxKey struct{}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// AuthMiddleware validates bearer tokens and exposes the principal downstream.
type AuthMiddleware struct {
	tokens TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	principal, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, principal)
	c.SetUserContext(WithPrincipal(c.UserContext(), principal))
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}

// WithPrincipal stores the principal on a context.Context for code below the HTTP layer.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFrom reads the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return p, ok && p != nil
}
