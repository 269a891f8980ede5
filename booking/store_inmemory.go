package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
)

type storedDraft struct {
	draft     Draft
	updatedAt time.Time
}

// InMemoryDraftStore is a thread-safe in-memory implementation of DraftStore.
// Drafts untouched for longer than maxAge are treated as missing.
type InMemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]storedDraft
	maxAge time.Duration
	now    func() time.Time
}

var _ DraftStore = (*InMemoryDraftStore)(nil)

func NewInMemoryDraftStore(maxAge time.Duration) *InMemoryDraftStore {
	return &InMemoryDraftStore{
		drafts: make(map[string]storedDraft),
		maxAge: maxAge,
		now:    time.Now,
	}
}

func (s *InMemoryDraftStore) Save(_ context.Context, browserID string, draft Draft) error {
	if browserID == "" {
		return errors.New("browserID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[browserID] = storedDraft{draft: draft, updatedAt: s.now()}
	return nil
}

func (s *InMemoryDraftStore) Get(_ context.Context, browserID string) (Draft, error) {
	if browserID == "" {
		return Draft{}, errors.New("browserID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.drafts[browserID]
	if !exists || s.stale(stored) {
		return Draft{}, apperrors.ErrDraftNotFound
	}
	return stored.draft, nil
}

func (s *InMemoryDraftStore) Delete(_ context.Context, browserID string) error {
	if browserID == "" {
		return errors.New("browserID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, browserID)
	return nil
}

// CleanupExpired removes stale drafts and returns how many were dropped.
func (s *InMemoryDraftStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for browserID, stored := range s.drafts {
		if s.stale(stored) {
			delete(s.drafts, browserID)
			removed++
		}
	}
	return removed
}

func (s *InMemoryDraftStore) stale(stored storedDraft) bool {
	return s.maxAge > 0 && s.now().Sub(stored.updatedAt) > s.maxAge
}
