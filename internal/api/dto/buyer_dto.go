package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// BuyerRegisterRequest payload for POST /register/buyer.
type BuyerRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BuyerUpdateRequest payload for PUT /buyer/update/:id.
type BuyerUpdateRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty"`
}

// BuyerResponse is the public view of a buyer. The password hash never leaves the service.
type BuyerResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ToInput maps the request onto the service input.
func (r BuyerRegisterRequest) ToInput() service.RegisterBuyerInput {
	return service.RegisterBuyerInput{Name: r.Name, Email: r.Email, Password: r.Password}
}

// ToInput maps the request onto the service input.
func (r BuyerUpdateRequest) ToInput() service.UpdateBuyerInput {
	return service.UpdateBuyerInput{Name: r.Name, Email: r.Email, Password: r.Password}
}

// NewBuyerResponse converts a buyer.
func NewBuyerResponse(b *domain.Buyer) BuyerResponse {
	return BuyerResponse{
		ID:        b.ID,
		Name:      b.Name,
		Email:     b.Email,
		Role:      domain.RoleBuyer,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
