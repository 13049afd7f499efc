package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// RequireOwner ensures the principal is the account addressed by the :id route parameter.
func RequireOwner(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != role || !sameAccount(principal.AccountID, c.Params("id")) {
			return apperrors.NewForbidden("not allowed to modify this account")
		}
		return c.Next()
	}
}

// sameAccount compares ids as UUIDs so casing and braces in the path do not matter.
func sameAccount(principalID, pathID string) bool {
	a, errA := uuid.Parse(principalID)
	b, errB := uuid.Parse(pathID)
	if errA != nil || errB != nil {
		return principalID == pathID
	}
	return a == b
}
