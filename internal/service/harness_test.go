package service

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
)

type testEnv struct {
	db         *memDB
	creds      *memCredentials
	refresh    *memRefresh
	images     *memImages
	dispatcher *recordingDispatcher
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
	resolver   *IdentityResolver
	buyers     *BuyerService
	sellers    *SellerService
	auth       *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db:         newMemDB(),
		refresh:    newMemRefresh(),
		images:     &memImages{},
		dispatcher: &recordingDispatcher{},
		hasher:     auth.NewPasswordHasher(bcrypt.MinCost),
		tokens:     auth.NewTokenManager("test-secret", time.Minute),
	}
	env.creds = &memCredentials{db: env.db}
	buyerRepo, sellerRepo := memBuyers{db: env.db}, memSellers{db: env.db}
	logger := zap.NewNop()

	env.resolver = NewIdentityResolver(buyerRepo, sellerRepo)
	env.buyers = NewBuyerService(buyerRepo, env.resolver, env.hasher, env.dispatcher, logger)
	env.sellers = NewSellerService(sellerRepo, env.resolver, env.hasher, env.images, env.dispatcher, logger)
	env.auth = NewAuthService(config.AuthConfig{RefreshTokenTTLMinutes: 60}, AuthDependencies{
		Credentials: env.creds,
		Buyers:      buyerRepo,
		Sellers:     sellerRepo,
		Refresh:     env.refresh,
		Hasher:      env.hasher,
		Tokens:      env.tokens,
	}, logger)
	return env
}

func strPtr(s string) *string { return &s }
