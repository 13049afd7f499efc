package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
)

// BuyersHandler exposes the buyer account endpoints.
type BuyersHandler struct {
	buyers BuyerUseCases
}

// NewBuyersHandler constructs handler.
func NewBuyersHandler(buyers BuyerUseCases) *BuyersHandler {
	return &BuyersHandler{buyers: buyers}
}

// Register handles POST /register/buyer.
func (h *BuyersHandler) Register(c *fiber.Ctx) error {
	var req dto.BuyerRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	buyer, err := h.buyers.Register(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewBuyerResponse(buyer))
}

// Read handles GET /buyer/read/:id.
func (h *BuyersHandler) Read(c *fiber.Ctx) error {
	buyer, err := h.buyers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBuyerResponse(buyer))
}

// Update handles PUT /buyer/update/:id.
func (h *BuyersHandler) Update(c *fiber.Ctx) error {
	var req dto.BuyerUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	buyer, err := h.buyers.Update(c.UserContext(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewBuyerResponse(buyer))
}

// Delete handles DELETE /buyer/delete/:id.
func (h *BuyersHandler) Delete(c *fiber.Ctx) error {
	if err := h.buyers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": c.Params("id"), "deleted": true})
}
