package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// SellerFields are the profile fields shared by seller registration and update.
// Multipart registration carries the same names as form fields, with profile as a JSON string.
type SellerFields struct {
	FirstName   string               `json:"fname"`
	LastName    string               `json:"lname"`
	Username    string               `json:"uname"`
	Email       string               `json:"email" validate:"required,email"`
	PhoneNumber string               `json:"phoneNumber"`
	DateOfBirth string               `json:"dob"`
	Gender      string               `json:"gender"`
	Country     string               `json:"country"`
	Timezone    string               `json:"timezone"`
	Description string               `json:"description"`
	Profile     domain.SellerProfile `json:"profile"`
}

// SellerRegisterRequest payload for POST /register/seller.
type SellerRegisterRequest struct {
	SellerFields
	Password string `json:"password" validate:"required"`
}

// SellerUpdateRequest payload for PUT /seller/update/:id.
type SellerUpdateRequest struct {
	SellerFields
	Password *string `json:"password,omitempty"`
}

// ImageResponse describes a stored seller image.
type ImageResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// SellerResponse is the public view of a seller.
type SellerResponse struct {
	ID          string               `json:"id"`
	FirstName   string               `json:"fname"`
	LastName    string               `json:"lname"`
	Username    string               `json:"uname"`
	Email       string               `json:"email"`
	PhoneNumber string               `json:"phoneNumber"`
	DateOfBirth string               `json:"dob"`
	Gender      string               `json:"gender"`
	Country     string               `json:"country"`
	Timezone    string               `json:"timezone"`
	Description string               `json:"description"`
	Profile     domain.SellerProfile `json:"profile"`
	Image       *ImageResponse       `json:"image,omitempty"`
	Role        domain.Role          `json:"role"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (f SellerFields) toInput() service.SellerFields {
	return service.SellerFields{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Username:    f.Username,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		DateOfBirth: f.DateOfBirth,
		Gender:      f.Gender,
		Country:     f.Country,
		Timezone:    f.Timezone,
		Description: f.Description,
		Profile:     f.Profile,
	}
}

// ToInput maps the request onto the service input.
func (r SellerRegisterRequest) ToInput() service.RegisterSellerInput {
	return service.RegisterSellerInput{SellerFields: r.SellerFields.toInput(), Password: r.Password}
}

// ToInput maps the request onto the service input.
func (r SellerUpdateRequest) ToInput() service.UpdateSellerInput {
	return service.UpdateSellerInput{SellerFields: r.SellerFields.toInput(), Password: r.Password}
}

// NewSellerResponse converts a seller.
func NewSellerResponse(s *domain.Seller) SellerResponse {
	resp := SellerResponse{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Username:    s.Username,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		DateOfBirth: s.DateOfBirth,
		Gender:      s.Gender,
		Country:     s.Country,
		Timezone:    s.Timezone,
		Description: s.Description,
		Profile:     s.Profile,
		Role:        domain.RoleSeller,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.Image != nil {
		resp.Image = &ImageResponse{URL: s.Image.URL, Key: s.Image.Key}
	}
	return resp
}
