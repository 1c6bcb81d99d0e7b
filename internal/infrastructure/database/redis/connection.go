// internal/infrastructure/database/redis/connection.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
)

// Client wraps the Redis client
type Client struct {
	Redis *redis.Client
}

// NewConnection creates a new Redis connection
func NewConnection(cfg *config.Config, log logrus.FieldLogger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,

		// Connection timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// Pool timeouts
		PoolTimeout: 4 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.WithField("addr", cfg.GetRedisAddr()).Info("Redis connection established")

	return &Client{
		Redis: rdb,
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Redis.Close()
}

// Health checks the Redis connection health
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return c.Redis.Ping(ctx).Err()
}

// Set stores a key-value pair with expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Redis.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key. A missing key reports ok=false without error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Incr increments a counter and sets its expiry when it is first created
func (c *Client) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
