package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quadworks/storefront/pkg/config"
)

// Client wraps the go-redis client so key construction and the small
// command surface the app needs live in one place.
type Client struct {
	rdb *redis.Client
}

func New(cfg config.RedisConfig) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewFromClient wraps an existing go-redis client, used by tests.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Raw() *redis.Client {
	return c.rdb
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies the connection for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// SetNX sets key only when absent, reporting whether it was set.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

// Incr bumps a counter and applies the TTL on first increment, the
// fixed-window rate limit primitive.
func (c *Client) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// CartKey is the per-user cart key.
func (c *Client) CartKey(userID string) string {
	return "storefront:cart:" + userID
}

// AccessSessionKey maps a JWT access id to its refresh session.
func (c *Client) AccessSessionKey(accessID string) string {
	return "storefront:session:" + accessID
}

// RateLimitKey is a fixed-window counter key.
func (c *Client) RateLimitKey(scope, subject string) string {
	return fmt.Sprintf("storefront:ratelimit:%s:%s", scope, subject)
}

// IdempotencyKey guards replayed mutating requests.
func (c *Client) IdempotencyKey(userID, key string) string {
	return fmt.Sprintf("storefront:idempotency:%s:%s", userID, key)
}
