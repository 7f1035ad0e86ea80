package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/events"
	"github.com/cuongbtq/jobreel/internal/platform"
	"golang.org/x/sync/errgroup"
)

type ApproveRequest struct {
	FinalApproval *bool
	ScheduledTime *time.Time
}

// Summary aggregates the per-platform outcome of a fan-out
type Summary struct {
	Total   int
	Success int
	Failed  int
}

// Rate formats the success ratio as a percentage with one decimal
func (s Summary) Rate() string {
	if s.Total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(s.Success)/float64(s.Total)*100)
}

// OK reports whether at least one platform accepted the post
func (s Summary) OK() bool {
	return s.Success > 0
}

func Summarize(results map[string]domain.PlatformResult) Summary {
	sum := Summary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			sum.Success++
		}
	}
	sum.Failed = sum.Total - sum.Success
	return sum
}

type ApproveResult struct {
	Draft     *domain.Draft
	Scheduled bool
	Results   map[string]domain.PlatformResult
	Summary   Summary
}

type PostResult struct {
	Results  map[string]domain.PlatformResult
	Summary  Summary
	PostedAt time.Time
}

// ApproveDraft schedules the draft or posts it to every selected platform
func (s *Service) ApproveDraft(ctx context.Context, id string, req ApproveRequest) (*ApproveResult, error) {
	d, err := s.reviewable(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FinalApproval == nil || !*req.FinalApproval {
		return nil, domain.NewValidationError("final_approval", "Final approval required to post reel")
	}

	now := s.now()
	if req.ScheduledTime != nil {
		return s.schedule(ctx, d, *req.ScheduledTime, now)
	}

	if err := d.Transition(domain.StatusPosting, now); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	// the posts and the final save must complete even if the client goes away
	postCtx := context.WithoutCancel(ctx)

	s.logger.Info("Posting approved reel",
		slog.String("draft_id", d.ID),
		slog.Any("platforms", d.Platforms),
	)

	results := s.fanOut(postCtx, d.Platforms, func(name string) platform.Publication {
		return s.compose(d, name)
	})

	postedAt := s.now()
	if err := d.MarkPosted(results, postedAt, s.cfg.Retention); err != nil {
		return nil, err
	}
	if err := s.store.Put(postCtx, d); err != nil {
		return nil, fmt.Errorf("failed to save posted draft: %w", err)
	}

	summary := Summarize(results)
	s.logger.Info("Reel posted",
		slog.String("draft_id", d.ID),
		slog.Int("success_count", summary.Success),
		slog.Int("total", summary.Total),
	)

	s.publish(postCtx, events.NewPostingEvent(events.KindReelPosted, d.ID, results, postedAt))

	return &ApproveResult{Draft: d, Results: results, Summary: summary}, nil
}

func (s *Service) schedule(ctx context.Context, d *domain.Draft, at, now time.Time) (*ApproveResult, error) {
	if !at.After(now) {
		return nil, domain.NewValidationError("scheduled_time", "Scheduled time must be in the future")
	}

	if err := d.Transition(domain.StatusScheduled, now); err != nil {
		return nil, err
	}
	d.ScheduledTime = &at

	if err := s.store.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.logger.Info("Reel scheduled",
		slog.String("draft_id", d.ID),
		slog.Time("scheduled_time", at),
	)

	return &ApproveResult{Draft: d, Scheduled: true}, nil
}

// PostMessage sends a plain text message to the configured text platforms
func (s *Service) PostMessage(ctx context.Context, message string) (*PostResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.NewValidationError("message", "Message is required")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, domain.NewValidationError("message", "Message exceeds 20,000 character limit")
	}

	postCtx := context.WithoutCancel(ctx)
	pub := platform.Publication{Text: message}
	results := s.fanOut(postCtx, s.cfg.PlainPostPlatforms, func(string) platform.Publication {
		return pub
	})

	postedAt := s.now()
	summary := Summarize(results)
	s.logger.Info("Message posted",
		slog.Int("success_count", summary.Success),
		slog.Int("total", summary.Total),
	)

	s.publish(postCtx, events.NewPostingEvent(events.KindMessagePosted, "", results, postedAt))

	return &PostResult{Results: results, Summary: summary, PostedAt: postedAt}, nil
}

// fanOut publishes to every platform concurrently. A failure never cancels its siblings.
func (s *Service) fanOut(ctx context.Context, names []string, compose func(name string) platform.Publication) map[string]domain.PlatformResult {
	collected := make([]domain.PlatformResult, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			collected[i] = s.publishOne(ctx, name, compose(name))
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]domain.PlatformResult, len(names))
	for _, r := range collected {
		results[r.Platform] = r
	}
	return results
}

func (s *Service) publishOne(ctx context.Context, name string, pub platform.Publication) domain.PlatformResult {
	client, err := s.platforms.Get(name)
	if err != nil {
		return domain.PlatformResult{Platform: name, Error: err.Error()}
	}

	receipt, err := client.Publish(ctx, pub)
	if err != nil {
		s.logger.Warn("Platform post failed",
			slog.String("platform", name),
			slog.String("cause", string(platform.CauseOf(err))),
			slog.String("error", err.Error()),
		)
		return domain.PlatformResult{Platform: name, Error: err.Error()}
	}

	s.logger.Info("Platform post succeeded",
		slog.String("platform", name),
		slog.String("post_id", receipt.PostID),
	)
	return domain.PlatformResult{
		Success:  true,
		Platform: name,
		PostID:   receipt.PostID,
		URL:      receipt.URL,
		ChatID:   receipt.ChatID,
	}
}
