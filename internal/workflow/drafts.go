package workflow

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
)

const excerptLength = 100

// DraftSummary is the list view of a draft
type DraftSummary struct {
	ID           string
	Excerpt      string
	Platforms    []string
	Status       domain.DraftStatus
	CreatedAt    time.Time
	LastModified time.Time
	Uploaded     bool
}

// GetDraft returns a draft that has not been posted yet
func (s *Service) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	return s.reviewable(ctx, id)
}

// DraftCursor marks the last draft of a page
type DraftCursor struct {
	CreatedAt time.Time
	ID        string
}

// ListOptions filters and pages ListDrafts. A zero PageSize returns every match
type ListOptions struct {
	Status   domain.DraftStatus
	PageSize int
	Cursor   *DraftCursor
}

// DraftPage is one page of draft summaries; Next is nil on the last page
type DraftPage struct {
	Drafts []DraftSummary
	Next   *DraftCursor
}

// ListDrafts returns stored drafts newest first, including posted ones until they expire
func (s *Service) ListDrafts(ctx context.Context, opts ListOptions) (*DraftPage, error) {
	if opts.Status != "" && !domain.IsKnownStatus(opts.Status) {
		return nil, domain.NewValidationError("status", "Unsupported status: %s", opts.Status)
	}

	drafts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	// (created_at, id) descending gives cursors a total order
	sort.SliceStable(drafts, func(i, j int) bool {
		if !drafts[i].CreatedAt.Equal(drafts[j].CreatedAt) {
			return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
		}
		return drafts[i].ID > drafts[j].ID
	})

	page := &DraftPage{Drafts: make([]DraftSummary, 0, len(drafts))}
	for _, d := range drafts {
		if opts.Status != "" && d.Status != opts.Status {
			continue
		}
		if opts.Cursor != nil && !olderThan(d, opts.Cursor) {
			continue
		}
		if opts.PageSize > 0 && len(page.Drafts) == opts.PageSize {
			last := page.Drafts[len(page.Drafts)-1]
			page.Next = &DraftCursor{CreatedAt: last.CreatedAt, ID: last.ID}
			break
		}
		page.Drafts = append(page.Drafts, DraftSummary{
			ID:           d.ID,
			Excerpt:      excerpt(d.RawText, excerptLength),
			Platforms:    d.Platforms,
			Status:       d.Status,
			CreatedAt:    d.CreatedAt,
			LastModified: d.LastModified,
			Uploaded:     d.Video.Uploaded,
		})
	}
	return page, nil
}

func olderThan(d *domain.Draft, c *DraftCursor) bool {
	if !d.CreatedAt.Equal(c.CreatedAt) {
		return d.CreatedAt.Before(c.CreatedAt)
	}
	return d.ID < c.ID
}

func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Draft deleted", slog.String("draft_id", id))
	return nil
}

func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
