package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/storage"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// ImageStore keeps uploaded seller images.
type ImageStore interface {
	Upload(ctx context.Context, img *storage.Image) (*domain.StoredImage, error)
	Delete(ctx context.Context, key string) error
}

// SellerFields are the profile fields shared by registration and update.
type SellerFields struct {
	FirstName   string
	LastName    string
	Username    string
	Email       string
	PhoneNumber string
	DateOfBirth string
	Gender      string
	Country     string
	Timezone    string
	Description string
	Profile     domain.SellerProfile
}

// RegisterSellerInput holds the fields accepted at seller registration.
type RegisterSellerInput struct {
	SellerFields
	Password string
}

// UpdateSellerInput overwrites the profile. A nil or empty Password keeps the stored hash.
type UpdateSellerInput struct {
	SellerFields
	Password *string
}

// SellerService runs the seller account lifecycle.
type SellerService struct {
	sellers    repository.SellerRepository
	resolver   *IdentityResolver
	hasher     *auth.PasswordHasher
	images     ImageStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSellerService builds the service. images may be nil when uploads are disabled.
func NewSellerService(sellers repository.SellerRepository, resolver *IdentityResolver, hasher *auth.PasswordHasher, images ImageStore, dispatcher events.Dispatcher, logger *zap.Logger) *SellerService {
	return &SellerService{
		sellers:    sellers,
		resolver:   resolver,
		hasher:     hasher,
		images:     images,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register creates a seller, uploading img first when one is supplied.
// If the insert fails after the upload, the stored object is removed again.
func (s *SellerService) Register(ctx context.Context, in RegisterSellerInput, img *storage.Image) (*domain.Seller, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if in.Password == "" {
		return nil, apperrors.NewValidationError("password is required", nil)
	}
	if img != nil && s.images == nil {
		return nil, apperrors.NewValidationError("image uploads are not enabled", nil)
	}
	if err := ensureEmailFree(ctx, s.resolver, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	seller := newSeller(in.SellerFields)
	seller.Email = email
	seller.PasswordHash = hash

	if img != nil {
		stored, err := s.images.Upload(ctx, img)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		seller.Image = stored
	}

	if err := s.sellers.Create(ctx, seller); err != nil {
		if seller.Image != nil {
			s.removeImage(ctx, seller.Image.Key)
		}
		return nil, mapWriteError("seller", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventAccountRegistered, seller.ID, domain.RoleSeller,
		events.AccountRegisteredPayload{Email: seller.Email, DisplayName: seller.FirstName, HasImage: seller.Image != nil}))
	return seller, nil
}

// Get loads a seller by id.
func (s *SellerService) Get(ctx context.Context, id string) (*domain.Seller, error) {
	if !validAccountID(id) {
		return nil, apperrors.NewNotFound("seller", nil)
	}
	seller, err := s.sellers.GetByID(ctx, id)
	if err != nil {
		return nil, mapWriteError("seller", err)
	}
	return seller, nil
}

// Update overwrites every profile field, empty values included. The image is kept.
func (s *SellerService) Update(ctx context.Context, id string, in UpdateSellerInput) (*domain.Seller, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if email != current.Email {
		if err := ensureEmailFree(ctx, s.resolver, email); err != nil {
			return nil, err
		}
	}

	upd := repository.SellerUpdate{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Username:    in.Username,
		Email:       email,
		PhoneNumber: normalizePhone(in.PhoneNumber),
		DateOfBirth: in.DateOfBirth,
		Gender:      in.Gender,
		Country:     in.Country,
		Timezone:    in.Timezone,
		Description: in.Description,
		Profile:     in.Profile,
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		upd.PasswordHash = &hash
	}

	seller, err := s.sellers.Update(ctx, id, upd)
	if err != nil {
		return nil, mapWriteError("seller", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventAccountUpdated, seller.ID, domain.RoleSeller,
		events.AccountUpdatedPayload{
			Email:           seller.Email,
			EmailChanged:    seller.Email != current.Email,
			PasswordChanged: upd.PasswordHash != nil,
		}))
	return seller, nil
}

// Delete removes the seller and, best effort, its stored image. Deleting an unknown id succeeds.
func (s *SellerService) Delete(ctx context.Context, id string) error {
	if !validAccountID(id) {
		return nil
	}
	res, err := s.sellers.Delete(ctx, id)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !res.Deleted {
		return nil
	}

	if res.ImageKey != "" {
		s.removeImage(ctx, res.ImageKey)
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventAccountDeleted, id, domain.RoleSeller,
		events.AccountDeletedPayload{ImageKey: res.ImageKey}))
	return nil
}

func (s *SellerService) removeImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn("seller image left in storage", zap.String("key", key), zap.Error(err))
	}
}

func newSeller(f SellerFields) *domain.Seller {
	return &domain.Seller{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Username:    f.Username,
		PhoneNumber: normalizePhone(f.PhoneNumber),
		DateOfBirth: f.DateOfBirth,
		Gender:      f.Gender,
		Country:     f.Country,
		Timezone:    f.Timezone,
		Description: f.Description,
		Profile:     f.Profile,
	}
}
