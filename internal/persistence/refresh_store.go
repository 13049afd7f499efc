package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

const refreshKeyPrefix = "refresh:"

// ErrRefreshTokenNotFound is returned when a refresh token is unknown, used or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshStore keeps refresh tokens in Redis, keyed by the opaque token value.
type RefreshStore struct {
	client redis.Cmdable
}

// NewRefreshStore builds a store on top of the given client.
func NewRefreshStore(client redis.Cmdable) *RefreshStore {
	return &RefreshStore{client: client}
}

// Save records token for principal until ttl elapses.
func (s *RefreshStore) Save(ctx context.Context, token string, p domain.Principal, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode refresh session: %w", err)
	}
	if err := s.client.Set(ctx, refreshKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Consume atomically reads and deletes token, so each refresh token works once.
func (s *RefreshStore) Consume(ctx context.Context, token string) (*domain.Principal, error) {
	payload, err := s.client.GetDel(ctx, refreshKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	var p domain.Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode refresh session: %w", err)
	}
	return &p, nil
}

// Revoke deletes token. Unknown tokens are not an error.
func (s *RefreshStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func refreshKey(token string) string {
	return refreshKeyPrefix + token
}
