package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Storage struct{}

var _ StorageConfig = Storage{}

// GetRedisAddr is empty when the in-memory stores should be used
func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Storage) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Storage) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}

// NewRedisClient connects to Redis and pings it with a short timeout.
// It returns a nil client when no address is configured.
func NewRedisClient(ctx context.Context, c StorageConfig) (*redis.Client, error) {
	if c.GetRedisAddr() == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.GetRedisAddr(),
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[config NewRedisClient] ping %s: %w", c.GetRedisAddr(), err)
	}
	return client, nil
}
