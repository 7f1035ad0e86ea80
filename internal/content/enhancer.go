package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEnhancerUnavailable = errors.New("content enhancer is not configured")

// Enhancement holds the marketing fields an enhancer may rewrite
type Enhancement struct {
	Hook     string `json:"hook"`
	CTA      string `json:"cta"`
	Hashtags string `json:"hashtags"`
}

// Enhancer rewrites the marketing copy of a parsed job posting
type Enhancer interface {
	Enhance(ctx context.Context, job JobPosting) (*Enhancement, error)
}

// NoopEnhancer is used when no AI service is configured
type NoopEnhancer struct{}

func (NoopEnhancer) Enhance(context.Context, JobPosting) (*Enhancement, error) {
	return nil, ErrEnhancerUnavailable
}

// hashtagList accepts either "#a #b" or ["#a", "#b"]
type hashtagList string

func (h *hashtagList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*h = hashtagList(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("hashtags must be a string or a list of strings: %w", err)
	}
	*h = hashtagList(strings.Join(list, " "))
	return nil
}

type enhancementPayload struct {
	Hook     string      `json:"hook"`
	CTA      string      `json:"cta"`
	Hashtags hashtagList `json:"hashtags"`
}

// ParseEnhancement decodes the JSON object an AI model returns
func ParseEnhancement(text string) (*Enhancement, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var p enhancementPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &p); err != nil {
		return nil, fmt.Errorf("failed to decode enhancement: %w", err)
	}

	return &Enhancement{
		Hook:     strings.TrimSpace(p.Hook),
		CTA:      strings.TrimSpace(p.CTA),
		Hashtags: strings.TrimSpace(string(p.Hashtags)),
	}, nil
}
