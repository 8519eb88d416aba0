package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sellerdesk/reconcile-backend/pkg/config"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

const (
	keyNamespace = "recon"
	cachePrefix  = "cache"
)

// Client wraps the redis connection used for the dashboard stats cache.
// All helpers are nil-receiver safe so the cache can be disabled by
// simply not configuring redis.
type Client struct {
	raw *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies
// connectivity. Returns (nil, nil) when redis is not configured.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		if logg != nil {
			logg.Info(ctx, "redis not configured, stats cache disabled")
		}
		return nil, nil
	}

	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// CacheKey namespaces a stats-cache key.
func (c *Client) CacheKey(name string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, cachePrefix, name)
}

// GetCache fetches a cached payload. A miss returns ("", nil).
func (c *Client) GetCache(ctx context.Context, key string) (string, error) {
	if c == nil || c.raw == nil {
		return "", nil
	}
	val, err := c.raw.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetCache stores a payload with the given TTL.
func (c *Client) SetCache(ctx context.Context, key, value string, ttl time.Duration) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Set(ctx, key, value, ttl).Err()
}

// InvalidateCache removes the given cache keys. Used by every write path
// that changes the order/collection population.
func (c *Client) InvalidateCache(ctx context.Context, keys ...string) error {
	if c == nil || c.raw == nil || len(keys) == 0 {
		return nil
	}
	return c.raw.Del(ctx, keys...).Err()
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Ping(ctx).Err()
}

// Close releases the underlying pool.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
