// Package events carries posting reports from the API service to the worker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/google/uuid"
)

// Kind identifies what was posted
type Kind string

const (
	KindReelPosted    Kind = "reel.posted"
	KindMessagePosted Kind = "message.posted"
)

var ErrInvalidEvent = errors.New("invalid posting event")

// PostingEvent reports the per-platform outcome of one fan-out
type PostingEvent struct {
	EventID      string                           `json:"event_id"`
	DraftID      string                           `json:"draft_id,omitempty"`
	Kind         Kind                             `json:"kind"`
	Results      map[string]domain.PlatformResult `json:"results"`
	SuccessCount int                              `json:"success_count"`
	Total        int                              `json:"total"`
	PostedAt     time.Time                        `json:"posted_at"`
}

// NewPostingEvent builds an event with a fresh id and counts derived from results
func NewPostingEvent(kind Kind, draftID string, results map[string]domain.PlatformResult, postedAt time.Time) *PostingEvent {
	success := 0
	for _, r := range results {
		if r.Success {
			success++
		}
	}
	return &PostingEvent{
		EventID:      uuid.NewString(),
		DraftID:      draftID,
		Kind:         kind,
		Results:      results,
		SuccessCount: success,
		Total:        len(results),
		PostedAt:     postedAt.UTC(),
	}
}

// Decode parses and validates a message body
func Decode(body []byte) (*PostingEvent, error) {
	var ev PostingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if _, err := uuid.Parse(ev.EventID); err != nil {
		return nil, fmt.Errorf("%w: event_id %q is not a UUID", ErrInvalidEvent, ev.EventID)
	}

	switch ev.Kind {
	case KindReelPosted:
		if ev.DraftID == "" {
			return nil, fmt.Errorf("%w: draft_id is required for %s", ErrInvalidEvent, ev.Kind)
		}
	case KindMessagePosted:
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, ev.Kind)
	}

	return &ev, nil
}

// Publisher delivers posting events
type Publisher interface {
	Publish(ctx context.Context, ev *PostingEvent) error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *PostingEvent) error { return nil }
