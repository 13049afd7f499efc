package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/storage"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

const imageField = "image"

// SellersHandler exposes the seller account endpoints.
type SellersHandler struct {
	sellers       SellerUseCases
	maxImageBytes int64
}

// NewSellersHandler constructs handler. maxImageBytes <= 0 disables the size check.
func NewSellersHandler(sellers SellerUseCases, maxImageBytes int64) *SellersHandler {
	return &SellersHandler{sellers: sellers, maxImageBytes: maxImageBytes}
}

// Register handles POST /register/seller as JSON or as multipart with an optional image.
func (h *SellersHandler) Register(c *fiber.Ctx) error {
	var (
		req dto.SellerRegisterRequest
		img *storage.Image
	)

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("invalid multipart payload", nil)
		}
		if err := sellerFromForm(form, &req); err != nil {
			return err
		}
		if err := dto.Validate(&req); err != nil {
			return err
		}
		if files := form.File[imageField]; len(files) > 0 {
			file, opened, err := h.openImage(files[0])
			if err != nil {
				return err
			}
			defer file.Close()
			img = opened
		}
	} else if err := parseBody(c, &req); err != nil {
		return err
	}

	seller, err := h.sellers.Register(c.UserContext(), req.ToInput(), img)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewSellerResponse(seller))
}

// Read handles GET /seller/read/:id.
func (h *SellersHandler) Read(c *fiber.Ctx) error {
	seller, err := h.sellers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewSellerResponse(seller))
}

// Update handles PUT /seller/update/:id.
func (h *SellersHandler) Update(c *fiber.Ctx) error {
	var req dto.SellerUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	seller, err := h.sellers.Update(c.UserContext(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewSellerResponse(seller))
}

// Delete handles DELETE /seller/delete/:id.
func (h *SellersHandler) Delete(c *fiber.Ctx) error {
	if err := h.sellers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"id": c.Params("id"), "deleted": true})
}

func (h *SellersHandler) openImage(fh *multipart.FileHeader) (multipart.File, *storage.Image, error) {
	if h.maxImageBytes > 0 && fh.Size > h.maxImageBytes {
		return nil, nil, apperrors.NewValidationError("image too large", map[string]any{"max_bytes": h.maxImageBytes})
	}

	file, err := fh.Open()
	if err != nil {
		return nil, nil, apperrors.NewValidationError("unreadable image", nil)
	}

	img, err := storage.DetectImage(file, fh.Size)
	if err != nil {
		file.Close()
		if errors.Is(err, storage.ErrNotImage) {
			return nil, nil, apperrors.NewValidationError("image must be an image file", nil)
		}
		return nil, nil, apperrors.NewInternalError(err)
	}
	return file, img, nil
}

func sellerFromForm(form *multipart.Form, req *dto.SellerRegisterRequest) error {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	req.FirstName = value("fname")
	req.LastName = value("lname")
	req.Username = value("uname")
	req.Email = value("email")
	req.PhoneNumber = value("phoneNumber")
	req.DateOfBirth = value("dob")
	req.Gender = value("gender")
	req.Country = value("country")
	req.Timezone = value("timezone")
	req.Description = value("description")
	req.Password = value("password")

	if raw := value("profile"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Profile); err != nil {
			return apperrors.NewValidationError("profile must be a JSON object", nil)
		}
	}
	return nil
}
