package server

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a redis-backed response cache. Values are the raw response bodies
// so cache hits skip both the match and the encode.
type Cache struct {
	client *redis.Client
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(ctx context.Context, key string, data []byte, expiration time.Duration) error {
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
