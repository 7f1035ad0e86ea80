package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/content"
	"github.com/cuongbtq/jobreel/internal/reel"
)

// Upload is a video supplied by the caller instead of a rendered reel
type Upload struct {
	Path         string
	OriginalName string
	Size         int64
}

type PreviewRequest struct {
	Text          string
	Platforms     []string
	Style         string
	StyleSettings map[string]any
	Upload        *Upload
}

// Preview is the reviewable form of a draft
type Preview struct {
	Content         content.Content
	OriginalText    string
	ThumbnailURL    string
	VideoPreviewURL string
	Duration        int
	Style           string
	Uploaded        bool
	LastModified    time.Time
}

type PreviewResult struct {
	Draft            *domain.Draft
	Preview          Preview
	PlatformPreviews map[string]PlatformPreview
	Suggestions      []string
}

type EditRequest struct {
	Overrides     content.Overrides
	Style         *string
	Platforms     []string
	CustomChanges []string
}

type EditResult struct {
	Draft         *domain.Draft
	Preview       Preview
	Applied       []string
	CustomChanges []string
}

// GeneratePreview creates a pending draft from a raw job update
func (s *Service) GeneratePreview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, domain.NewValidationError("job_update", "Job update content is required")
	}

	platforms, err := s.resolvePlatforms(req.Platforms, s.cfg.DefaultPlatforms)
	if err != nil {
		return nil, err
	}

	style, err := s.resolveStyle(req.Style)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &domain.Draft{
		ID:            domain.NewDraftID(now),
		RawText:       req.Text,
		Platforms:     platforms,
		Style:         style,
		StyleSettings: req.StyleSettings,
		Content:       s.generator.Generate(ctx, req.Text),
		Status:        domain.StatusPendingApproval,
		CreatedAt:     now,
		LastModified:  now,
	}

	if req.Upload != nil {
		d.Video = domain.Video{
			Path:         req.Upload.Path,
			OriginalName: req.Upload.OriginalName,
			Size:         req.Upload.Size,
			Uploaded:     true,
			Duration:     reel.ReelDuration,
		}
	} else if d.Video, err = s.render(d); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	s.logger.Info("Reel preview generated",
		slog.String("draft_id", d.ID),
		slog.Any("platforms", d.Platforms),
		slog.String("style", d.Style),
		slog.Bool("uploaded", d.Video.Uploaded),
	)

	return &PreviewResult{
		Draft:            d,
		Preview:          s.preview(d),
		PlatformPreviews: s.PlatformPreviews(d),
		Suggestions:      Suggestions(),
	}, nil
}

// EditDraft merges the overrides into a reviewable draft and re-renders its reel
func (s *Service) EditDraft(ctx context.Context, id string, req EditRequest) (*EditResult, error) {
	d, err := s.reviewable(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.Transition(domain.StatusModified, s.now()); err != nil {
		return nil, err
	}

	merged, applied := d.Content.Merge(req.Overrides)
	d.Content = merged

	if req.Style != nil && strings.TrimSpace(*req.Style) != "" {
		if d.Style, err = s.resolveStyle(*req.Style); err != nil {
			return nil, err
		}
		applied = append(applied, "style")
	}

	if len(req.Platforms) > 0 {
		if d.Platforms, err = s.resolvePlatforms(req.Platforms, d.Platforms); err != nil {
			return nil, err
		}
		applied = append(applied, "platforms")
	}

	customChanges := append([]string{}, req.CustomChanges...)
	if len(customChanges) > 0 {
		applied = append(applied, "custom_changes")
	}
	d.CustomChanges = customChanges

	if !d.Video.Uploaded {
		if d.Video, err = s.render(d); err != nil {
			return nil, err
		}
	}

	if err := s.store.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.logger.Info("Reel draft updated",
		slog.String("draft_id", d.ID),
		slog.Any("applied", applied),
	)

	return &EditResult{
		Draft:         d,
		Preview:       s.preview(d),
		Applied:       applied,
		CustomChanges: customChanges,
	}, nil
}

func (s *Service) render(d *domain.Draft) (domain.Video, error) {
	res, err := s.renderer.Render(d.Content, d.ID)
	if err != nil {
		return domain.Video{}, fmt.Errorf("failed to render reel: %w", err)
	}
	return domain.Video{Path: res.VideoPath, Duration: res.Duration}, nil
}

func (s *Service) preview(d *domain.Draft) Preview {
	p := s.renderer.Preview(d.Content, d.Style)
	if u := s.renderer.PublicURL(d.Video.Path); u != "" && !d.Video.Uploaded {
		p.VideoPreviewURL = u
	}
	return Preview{
		Content:         d.Content,
		OriginalText:    d.RawText,
		ThumbnailURL:    p.ThumbnailURL,
		VideoPreviewURL: p.VideoPreviewURL,
		Duration:        p.Duration,
		Style:           d.Style,
		Uploaded:        d.Video.Uploaded,
		LastModified:    d.LastModified,
	}
}
