package content

import (
	"context"
	"errors"
	"log/slog"
)

// Generator produces draft content from a raw job update
type Generator struct {
	enhancer Enhancer
	logger   *slog.Logger
}

func NewGenerator(enhancer Enhancer, logger *slog.Logger) *Generator {
	if enhancer == nil {
		enhancer = NoopEnhancer{}
	}
	return &Generator{enhancer: enhancer, logger: logger}
}

// Generate never fails; enhancer errors only downgrade the result to the defaults
func (g *Generator) Generate(ctx context.Context, raw string) Content {
	job := Parse(raw)

	var c Content
	if job.Title == "" {
		c = Fallback(raw)
	} else {
		c = Content{
			Title:    job.Title,
			Hook:     DefaultHook,
			CTA:      DefaultCTA,
			Hashtags: DefaultHashtags,
		}
	}
	c.Job = job
	c.RawText = raw

	enh, err := g.enhancer.Enhance(ctx, job)
	if errors.Is(err, ErrEnhancerUnavailable) {
		return c
	}
	if err != nil {
		g.logger.Warn("content enhancement failed, using parsed content",
			slog.String("error", err.Error()),
		)
		return c
	}
	if enh == nil {
		return c
	}

	if enh.Hook != "" {
		c.Hook = enh.Hook
	}
	if enh.CTA != "" {
		c.CTA = enh.CTA
	}
	if enh.Hashtags != "" {
		c.Hashtags = enh.Hashtags
	}
	return c
}
