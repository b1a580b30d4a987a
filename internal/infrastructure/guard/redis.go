package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/Victor-armando18/pricing-scheme/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL = 30 * time.Second
	releaseTimeout = 2 * time.Second
	keyPrefix      = "pricing-scheme:apply:"
)

// redisStore defines the operations used by RedisGuard.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisGuard shares the in-flight flag between service replicas using
// SETNX with a TTL and an owner token.
type RedisGuard struct {
	client redisStore
	ttl    time.Duration
	logg   *logger.Logger
}

func NewRedisGuard(client redisStore, ttl time.Duration, logg *logger.Logger) (*RedisGuard, error) {
	if client == nil {
		return nil, errors.New("redis client required for guard")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &RedisGuard{client: client, ttl: ttl, logg: logg}, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, orderID string) (interfaces.ReleaseFunc, error) {
	key := keyPrefix + orderID
	owner := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key, owner, g.ttl)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "setnx application guard")
	}
	if !ok {
		return nil, errInFlight(orderID)
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := g.release(releaseCtx, key, owner); err != nil {
			g.logg.Error(g.logg.WithOrderID(releaseCtx, orderID), "failed to release application guard", err)
		}
	}, nil
}

// release frees the key only if the owner value still matches.
func (g *RedisGuard) release(ctx context.Context, key, owner string) error {
	value, err := g.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read guard owner: %w", err)
	}
	if value != owner {
		return nil
	}
	if err := g.client.Del(ctx, key); err != nil {
		return fmt.Errorf("delete guard: %w", err)
	}
	return nil
}

// RedisClient adapts *redis.Client to the guard's store.
type RedisClient struct {
	raw *redis.Client
}

// NewRedisClient parses url, connects and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*RedisClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisClient{raw: raw}, nil
}

func (c *RedisClient) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return c.raw.SetNX(ctx, key, value, ttl).Result()
}

func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return c.raw.Get(ctx, key).Result()
}

func (c *RedisClient) Del(ctx context.Context, keys ...string) error {
	return c.raw.Del(ctx, keys...).Err()
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx).Err()
}

func (c *RedisClient) Close() error {
	return c.raw.Close()
}
