package storage

import (
	"context"
	"time"

	redisdb "github.com/your-org/toyshop-storefront/internal/infrastructure/database/redis"
)

// Redis stores values in Redis with a sliding expiry
type Redis struct {
	client *redisdb.Client
	ttl    time.Duration
}

// NewRedis creates the Redis store. A ttl of zero keeps keys forever.
func NewRedis(client *redisdb.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	return r.client.Get(ctx, key)
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl)
}
