package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
	"github.com/spec-kit/marketplace-service/internal/storage"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// AuthUseCases is the session surface served over HTTP.
type AuthUseCases interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Session, error)
	Logout(ctx context.Context, refreshToken string) error
}

// BuyerUseCases is the buyer lifecycle served over HTTP.
type BuyerUseCases interface {
	Register(ctx context.Context, in service.RegisterBuyerInput) (*domain.Buyer, error)
	Get(ctx context.Context, id string) (*domain.Buyer, error)
	Update(ctx context.Context, id string, in service.UpdateBuyerInput) (*domain.Buyer, error)
	Delete(ctx context.Context, id string) error
}

// SellerUseCases is the seller lifecycle served over HTTP.
type SellerUseCases interface {
	Register(ctx context.Context, in service.RegisterSellerInput, img *storage.Image) (*domain.Seller, error)
	Get(ctx context.Context, id string) (*domain.Seller, error)
	Update(ctx context.Context, id string, in service.UpdateSellerInput) (*domain.Seller, error)
	Delete(ctx context.Context, id string) error
}

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"data": data})
}
