package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
)

// Redis holds the session cache connection.
type Redis struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedis opens a client and probes it once within the dial timeout.
// An unreachable server is logged, not fatal: only refresh sessions depend on it.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})

	r := &Redis{Client: client, logger: logger}
	probeCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := r.Ping(probeCtx); err != nil {
		logger.Warn("redis unreachable, refresh sessions unavailable until it recovers",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return r
}

// Sessions returns the refresh-token store backed by this connection.
func (r *Redis) Sessions() *RefreshStore {
	return NewRefreshStore(r.Client)
}

// Close releases the connection pool.
func (r *Redis) Close() {
	if r == nil || r.Client == nil {
		return
	}
	if err := r.Client.Close(); err != nil && r.logger != nil {
		r.logger.Warn("closing redis", zap.Error(err))
	}
}

// Ping reports whether Redis answers; used by the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
