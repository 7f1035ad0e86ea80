package storage

import (
	"context"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
)

// DraftStore persists reel drafts. Reads treat expired drafts as absent.
type DraftStore interface {
	// Create stores a new draft, returning domain.ErrDraftExists if the id is taken
	Create(ctx context.Context, d *domain.Draft) error
	// Put inserts or replaces a draft
	Put(ctx context.Context, d *domain.Draft) error
	Get(ctx context.Context, id string) (*domain.Draft, error)
	Delete(ctx context.Context, id string) error
	// List returns drafts newest first
	List(ctx context.Context) ([]*domain.Draft, error)
}

// Sweeper removes drafts whose retention window has passed
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Clock returns the current time
type Clock func() time.Time
