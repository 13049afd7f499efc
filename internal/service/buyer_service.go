package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// RegisterBuyerInput holds the fields accepted at buyer registration.
type RegisterBuyerInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateBuyerInput overwrites name and email. A nil or empty Password keeps the stored hash.
type UpdateBuyerInput struct {
	Name     string
	Email    string
	Password *string
}

// BuyerService runs the buyer account lifecycle.
type BuyerService struct {
	buyers     repository.BuyerRepository
	resolver   *IdentityResolver
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewBuyerService builds the service.
func NewBuyerService(buyers repository.BuyerRepository, resolver *IdentityResolver, hasher *auth.PasswordHasher, dispatcher events.Dispatcher, logger *zap.Logger) *BuyerService {
	return &BuyerService{
		buyers:     buyers,
		resolver:   resolver,
		hasher:     hasher,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register creates a buyer once the email is known to be free in both identity spaces.
func (s *BuyerService) Register(ctx context.Context, in RegisterBuyerInput) (*domain.Buyer, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if in.Password == "" {
		return nil, apperrors.NewValidationError("password is required", nil)
	}
	if err := ensureEmailFree(ctx, s.resolver, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	buyer := &domain.Buyer{
		Identity: domain.Identity{Email: email, PasswordHash: hash},
		Name:     in.Name,
	}
	if err := s.buyers.Create(ctx, buyer); err != nil {
		return nil, mapWriteError("buyer", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventAccountRegistered, buyer.ID, domain.RoleBuyer,
		events.AccountRegisteredPayload{Email: buyer.Email, DisplayName: buyer.Name}))
	return buyer, nil
}

// Get loads a buyer by id.
func (s *BuyerService) Get(ctx context.Context, id string) (*domain.Buyer, error) {
	if !validAccountID(id) {
		return nil, apperrors.NewNotFound("buyer", nil)
	}
	buyer, err := s.buyers.GetByID(ctx, id)
	if err != nil {
		return nil, mapWriteError("buyer", err)
	}
	return buyer, nil
}

// Update overwrites every non-password field, empty values included.
func (s *BuyerService) Update(ctx context.Context, id string, in UpdateBuyerInput) (*domain.Buyer, error) {
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

	upd := repository.BuyerUpdate{Name: in.Name, Email: email}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		upd.PasswordHash = &hash
	}

	buyer, err := s.buyers.Update(ctx, id, upd)
	if err != nil {
		return nil, mapWriteError("buyer", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventAccountUpdated, buyer.ID, domain.RoleBuyer,
		events.AccountUpdatedPayload{
			Email:           buyer.Email,
			EmailChanged:    buyer.Email != current.Email,
			PasswordChanged: upd.PasswordHash != nil,
		}))
	return buyer, nil
}

// Delete removes the buyer. Deleting an unknown id succeeds.
func (s *BuyerService) Delete(ctx context.Context, id string) error {
	if !validAccountID(id) {
		return nil
	}
	deleted, err := s.buyers.Delete(ctx, id)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if deleted {
		publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventAccountDeleted, id, domain.RoleBuyer,
			events.AccountDeletedPayload{}))
	}
	return nil
}
