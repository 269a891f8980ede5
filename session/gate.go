package session

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/rs/zerolog/log"
)

// Gate is the only writer of a browser's persisted token.
type Gate struct {
	store TokenStore
	now   func() time.Time
}

type GateOption func(*Gate)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		g.now = now
	}
}

func NewGate(store TokenStore, opts ...GateOption) *Gate {
	g := &Gate{store: store, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Restore rebuilds the session from the persisted token. A token that does
// not decode or has expired is erased and the browser stays logged out.
func (g *Gate) Restore(ctx context.Context, browserID string) Session {
	if browserID == "" {
		return Session{}
	}

	token, err := g.store.Get(ctx, browserID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrSessionNotFound) {
			log.Err(err).Msg("Failed to read persisted token")
		}
		return Session{}
	}

	s, err := g.fromToken(token)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding persisted token")
		if err := g.store.Clear(ctx, browserID); err != nil {
			log.Err(err).Msg("Failed to clear persisted token")
		}
		return Session{}
	}
	return s
}

// Login persists token for the browser. A token that cannot be decoded or
// that has already expired is rejected and nothing is stored.
func (g *Gate) Login(ctx context.Context, browserID, token string) (Session, error) {
	if browserID == "" {
		return Session{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "[Gate Login] browserID is required")
	}

	s, err := g.fromToken(token)
	if err != nil {
		return Session{}, fmt.Errorf("[Gate Login] %w", err)
	}

	if err := g.store.Set(ctx, browserID, token, s.ExpiresAt); err != nil {
		return Session{}, fmt.Errorf("[Gate Login] persist token: %w", err)
	}
	return s, nil
}

func (g *Gate) Logout(ctx context.Context, browserID string) error {
	if browserID == "" {
		return nil
	}
	if err := g.store.Clear(ctx, browserID); err != nil {
		return fmt.Errorf("[Gate Logout] %w", err)
	}
	return nil
}

func (g *Gate) fromToken(token string) (Session, error) {
	claims, err := DecodeToken(token)
	if err != nil {
		return Session{}, err
	}
	if claims.Expired(g.now()) {
		return Session{}, apperrors.Wrapf(apperrors.ErrTokenExpired, "token expired at %s", claims.ExpiresAt.Format(time.RFC3339))
	}
	return Session{
		Token:     token,
		WebUserID: claims.WebUserID,
		Role:      Role(claims.Role),
		LoggedIn:  true,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
