package session

import (
	"context"
	"time"
)

// TokenStore persists one bearer token per browser context.
// Get returns errors.ErrSessionNotFound when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context, browserID string) (string, error)
	Set(ctx context.Context, browserID, token string, expiresAt time.Time) error
	Clear(ctx context.Context, browserID string) error
}
