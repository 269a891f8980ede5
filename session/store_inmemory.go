package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
)

// InMemoryTokenStore is an in-memory implementation of TokenStore
type InMemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string // browserID -> token
}

var _ TokenStore = (*InMemoryTokenStore)(nil)

// NewInMemoryTokenStore creates a new in-memory token store
func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		tokens: make(map[string]string),
	}
}

// Set stores or replaces the token. Expiry is enforced by the Gate.
func (s *InMemoryTokenStore) Set(_ context.Context, browserID, token string, _ time.Time) error {
	if browserID == "" {
		return fmt.Errorf("browserID is required")
	}
	if token == "" {
		return fmt.Errorf("token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[browserID] = token
	return nil
}

func (s *InMemoryTokenStore) Get(_ context.Context, browserID string) (string, error) {
	if browserID == "" {
		return "", fmt.Errorf("browserID is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[browserID]
	if !ok {
		return "", apperrors.ErrSessionNotFound
	}
	return token, nil
}

func (s *InMemoryTokenStore) Clear(_ context.Context, browserID string) error {
	if browserID == "" {
		return fmt.Errorf("browserID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, browserID) // Already gone is not an error
	return nil
}
