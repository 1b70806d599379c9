package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory builds the idempotency store and the key locker from
// configuration, sharing one Redis client between them when Redis is on
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
	client *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithClient uses an existing Redis client instead of dialing one
func WithClient(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a Factory
func NewFactory(cfg *config.Config, opts ...FactoryOption) *Factory {
	f := &Factory{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) redisClient(ctx context.Context) (*redis.Client, error) {
	if f.client != nil {
		return f.client, nil
	}
	client, err := NewRedisClient(ctx, f.cfg.Redis)
	if err != nil {
		return nil, err
	}
	f.client = client
	return client, nil
}

// IdempotencyStore returns the Redis store when Redis is enabled and
// reachable. Otherwise it falls back to an in-memory store, which does not
// protect against a retry that lands on another server instance.
func (f *Factory) IdempotencyStore(ctx context.Context) shared.IdempotencyStore {
	if !f.cfg.Redis.Enabled {
		f.logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(0)
	}
	client, err := f.redisClient(ctx)
	if err != nil {
		f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
		return NewInMemoryIdempotencyStore(0)
	}
	f.logger.Info("using Redis idempotency store", zap.String("addr", f.cfg.Redis.Addr()))
	return NewRedisIdempotencyStore(client, "")
}

// Locker returns the key locker selected by billing.lock_backend
func (f *Factory) Locker(ctx context.Context) (uow.KeyedLocker, error) {
	switch f.cfg.Billing.LockBackend {
	case config.LockBackendRedis:
		client, err := f.redisClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("lock backend: %w", err)
		}
		f.logger.Info("using Redis key locks", zap.Duration("ttl", f.cfg.Billing.LockTTL))
		return NewRedisLocker(client, f.cfg.Billing.LockTTL, f.logger), nil
	case config.LockBackendMemory, "":
		return uow.NewMemoryLocker(), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", f.cfg.Billing.LockBackend)
	}
}

// Close closes the shared Redis client, if one was opened
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

var _ io.Closer = (*Factory)(nil)
