package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the session denylist. It stays nil when REDIS_ADDR is not set,
// in which case logout only clears the cookie.
var Redis *redis.Client

func InitRedis(ctx context.Context, s RedisSettings) error {
	if s.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         s.Addr,
		Password:     s.Password,
		DB:           s.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	Redis = rdb
	return nil
}
