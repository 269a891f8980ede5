package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/redis/go-redis/v9"
)

// RedisDraftStore keeps each draft as a JSON blob that expires after maxAge of inactivity.
type RedisDraftStore struct {
	client *redis.Client
	prefix string
	maxAge time.Duration
}

var _ DraftStore = (*RedisDraftStore)(nil)

func NewRedisDraftStore(client *redis.Client, prefix string, maxAge time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, prefix: prefix, maxAge: maxAge}
}

func (s *RedisDraftStore) key(browserID string) string {
	return s.prefix + ":" + browserID
}

func (s *RedisDraftStore) Get(ctx context.Context, browserID string) (Draft, error) {
	data, err := s.client.Get(ctx, s.key(browserID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, apperrors.ErrDraftNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("[RedisDraftStore Get] %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("[RedisDraftStore Get] decode: %w", err)
	}
	return d, nil
}

func (s *RedisDraftStore) Save(ctx context.Context, browserID string, draft Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("[RedisDraftStore Save] encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(browserID), data, s.maxAge).Err(); err != nil {
		return fmt.Errorf("[RedisDraftStore Save] %w", err)
	}
	return nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, browserID string) error {
	if err := s.client.Del(ctx, s.key(browserID)).Err(); err != nil {
		return fmt.Errorf("[RedisDraftStore Delete] %w", err)
	}
	return nil
}
