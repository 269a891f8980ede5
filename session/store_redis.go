package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps tokens under "<prefix>:<browserID>" until they expire.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

var _ TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(client *redis.Client, prefix string) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: prefix}
}

func (s *RedisTokenStore) key(browserID string) string {
	return s.prefix + ":" + browserID
}

func (s *RedisTokenStore) Get(ctx context.Context, browserID string) (string, error) {
	token, err := s.client.Get(ctx, s.key(browserID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("[RedisTokenStore Get] %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Set(ctx context.Context, browserID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return apperrors.Wrapf(apperrors.ErrTokenExpired, "[RedisTokenStore Set]")
	}
	if err := s.client.Set(ctx, s.key(browserID), token, ttl).Err(); err != nil {
		return fmt.Errorf("[RedisTokenStore Set] %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Clear(ctx context.Context, browserID string) error {
	if err := s.client.Del(ctx, s.key(browserID)).Err(); err != nil {
		return fmt.Errorf("[RedisTokenStore Clear] %w", err)
	}
	return nil
}
