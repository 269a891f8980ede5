package booking

import "context"

// DraftStore keeps one draft per browser context.
// Get returns errors.ErrDraftNotFound when there is none.
type DraftStore interface {
	Get(ctx context.Context, browserID string) (Draft, error)
	Save(ctx context.Context, browserID string, draft Draft) error
	Delete(ctx context.Context, browserID string) error
}
