// Package workflow drives a draft from preview through editing and approval to
// the concurrent fan-out over the selected platforms.
package workflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/api/storage"
	"github.com/cuongbtq/jobreel/internal/content"
	"github.com/cuongbtq/jobreel/internal/events"
	"github.com/cuongbtq/jobreel/internal/platform"
	"github.com/cuongbtq/jobreel/internal/reel"
)

// MaxMessageLength is the longest plain post accepted, in characters
const MaxMessageLength = 20000

type ContentGenerator interface {
	Generate(ctx context.Context, raw string) content.Content
}

type ReelRenderer interface {
	Preview(c content.Content, style string) reel.Preview
	Render(c content.Content, name string) (*reel.Result, error)
	PublicURL(p string) string
}

type PlatformRegistry interface {
	Get(name string) (platform.Client, error)
	Has(name string) bool
}

// Config holds the workflow settings taken from the service configuration
type Config struct {
	DefaultPlatforms   []string
	PlainPostPlatforms []string
	DefaultStyle       string
	Retention          time.Duration
}

// Dependencies holds everything the service needs
type Dependencies struct {
	Logger    *slog.Logger
	Store     storage.DraftStore
	Generator ContentGenerator
	Renderer  ReelRenderer
	Platforms PlatformRegistry
	Publisher events.Publisher
	Config    Config
	Clock     storage.Clock
}

type Service struct {
	logger    *slog.Logger
	store     storage.DraftStore
	generator ContentGenerator
	renderer  ReelRenderer
	platforms PlatformRegistry
	publisher events.Publisher
	cfg       Config
	now       storage.Clock
}

func NewService(deps *Dependencies) *Service {
	s := &Service{
		logger:    deps.Logger,
		store:     deps.Store,
		generator: deps.Generator,
		renderer:  deps.Renderer,
		platforms: deps.Platforms,
		publisher: deps.Publisher,
		cfg:       deps.Config,
		now:       deps.Clock,
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.cfg.DefaultStyle == "" {
		s.cfg.DefaultStyle = reel.StyleProfessional
	}
	if s.cfg.Retention <= 0 {
		s.cfg.Retention = 7 * 24 * time.Hour
	}
	return s
}

// resolvePlatforms normalizes the requested names, falling back to defaults when none are given
func (s *Service) resolvePlatforms(requested, defaults []string) ([]string, error) {
	seen := make(map[string]bool, len(requested))
	var out []string
	for _, name := range requested {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		if !s.platforms.Has(name) {
			return nil, domain.NewValidationError("platforms", "Unsupported platform: %s", name)
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return append([]string(nil), defaults...), nil
	}
	return out, nil
}

func (s *Service) resolveStyle(style string) (string, error) {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" {
		return s.cfg.DefaultStyle, nil
	}
	if !reel.IsStyle(style) {
		return "", domain.NewValidationError("style", "Unsupported style: %s", style)
	}
	return style, nil
}

// reviewable loads a draft that can still be edited or approved
func (s *Service) reviewable(ctx context.Context, id string) (*domain.Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Reviewable(s.now()) {
		return nil, domain.ErrDraftNotFound
	}
	return d, nil
}

func (s *Service) publish(ctx context.Context, ev *events.PostingEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish posting event",
			slog.String("event_id", ev.EventID),
			slog.String("draft_id", ev.DraftID),
			slog.String("error", err.Error()),
		)
	}
}
