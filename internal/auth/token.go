package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// DefaultAccessTokenTTL matches the deliberately short session lifetime.
const DefaultAccessTokenTTL = 100 * time.Second

// ErrInvalidToken is returned for every verification failure: bad signature,
// unexpected algorithm, malformed input or expiry are not told apart.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager handles issuing and validating JWT tokens.
//
// All tokens are signed with one process-wide secret. Replacing the secret
// invalidates every outstanding token, which is how all sessions are revoked.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes JWT payload.
type Claims struct {
	AccountID   string      `json:"account_id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TTL returns the lifetime of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds and signs a JWT for the principal.
func (tm *TokenManager) Issue(p domain.Principal) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		AccountID:   p.AccountID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.AccountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the token and returns the principal it asserts.
func (tm *TokenManager) Verify(tokenStr string) (*domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.AccountID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return &domain.Principal{
		AccountID:   claims.AccountID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
	}, nil
}
