package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// RefreshStore persists opaque refresh tokens.
type RefreshStore interface {
	Save(ctx context.Context, token string, p domain.Principal, ttl time.Duration) error
	Consume(ctx context.Context, token string) (*domain.Principal, error)
	Revoke(ctx context.Context, token string) error
}

// AuthService coordinates login and session renewal across both identity spaces.
type AuthService struct {
	credentials repository.CredentialRepository
	buyers      repository.BuyerRepository
	sellers     repository.SellerRepository
	refresh     RefreshStore
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenManager
	refreshTTL  time.Duration
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
// Refresh may be nil, in which case sessions cannot be renewed.
type AuthDependencies struct {
	Credentials repository.CredentialRepository
	Buyers      repository.BuyerRepository
	Sellers     repository.SellerRepository
	Refresh     RefreshStore
	Hasher      *auth.PasswordHasher
	Tokens      *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		credentials: deps.Credentials,
		buyers:      deps.Buyers,
		sellers:     deps.Sellers,
		refresh:     deps.Refresh,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		refreshTTL:  cfg.RefreshTokenTTL(),
		logger:      logger,
	}
}

// Login verifies credentials against whichever identity space holds the email.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	creds, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	switch len(creds) {
	case 0:
		s.hasher.VerifyDummy(password)
		return nil, apperrors.NewAuthenticationError()
	case 1:
	default:
		s.logger.Error("email registered in more than one identity space",
			zap.String("email", email), zap.Int("matches", len(creds)))
		return nil, apperrors.NewInternalError(fmt.Errorf("email %q matched %d accounts", email, len(creds)))
	}

	cred := creds[0]
	if !s.hasher.Verify(password, cred.PasswordHash) {
		return nil, apperrors.NewAuthenticationError()
	}
	return s.startSession(ctx, cred.Principal())
}

// Refresh exchanges a refresh token for a new session. Each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if refreshToken == "" {
		return nil, apperrors.NewValidationError("refresh_token is required", nil)
	}
	if s.refresh == nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	claimed, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, persistence.ErrRefreshTokenNotFound) {
			return nil, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, apperrors.NewInternalError(err)
	}

	current, err := s.currentPrincipal(ctx, *claimed)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, current)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.NewValidationError("refresh_token is required", nil)
	}
	if s.refresh == nil {
		return nil
	}
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// currentPrincipal reloads the account so renewed tokens carry fresh claims.
func (s *AuthService) currentPrincipal(ctx context.Context, p domain.Principal) (domain.Principal, error) {
	var (
		fresh domain.Principal
		err   error
	)
	switch p.Role {
	case domain.RoleBuyer:
		var buyer *domain.Buyer
		if buyer, err = s.buyers.GetByID(ctx, p.AccountID); err == nil {
			fresh = buyer.Principal()
		}
	case domain.RoleSeller:
		var seller *domain.Seller
		if seller, err = s.sellers.GetByID(ctx, p.AccountID); err == nil {
			fresh = seller.Principal()
		}
	default:
		return domain.Principal{}, apperrors.NewUnauthorized("invalid refresh token")
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Principal{}, apperrors.NewUnauthorized("account no longer exists")
	}
	if err != nil {
		return domain.Principal{}, apperrors.NewInternalError(err)
	}
	return fresh, nil
}

func (s *AuthService) startSession(ctx context.Context, p domain.Principal) (*domain.Session, error) {
	token, expiresAt, err := s.tokens.Issue(p)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	session := &domain.Session{Principal: p, AccessToken: token, ExpiresAt: expiresAt}
	if s.refresh == nil {
		return session, nil
	}

	refreshToken := uuid.NewString()
	if err := s.refresh.Save(ctx, refreshToken, p, s.refreshTTL); err != nil {
		s.logger.Warn("refresh token not stored, session cannot be renewed",
			zap.String("account_id", p.AccountID), zap.Error(err))
		return session, nil
	}
	session.RefreshToken = refreshToken
	return session, nil
}
