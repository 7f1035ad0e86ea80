package domain

import (
	"fmt"
	"time"

	"github.com/cuongbtq/jobreel/internal/content"
	"github.com/google/uuid"
)

// DraftStatus is the lifecycle state of a reel draft
type DraftStatus string

const (
	StatusPendingApproval DraftStatus = "pending_approval"
	StatusModified        DraftStatus = "modified"
	StatusScheduled       DraftStatus = "scheduled"
	StatusPosting         DraftStatus = "posting"
	StatusPosted          DraftStatus = "posted"
)

// IsKnownStatus reports whether s is one of the draft statuses
func IsKnownStatus(s DraftStatus) bool {
	switch s {
	case StatusPendingApproval, StatusModified, StatusScheduled, StatusPosting, StatusPosted:
		return true
	}
	return false
}

var transitions = map[DraftStatus][]DraftStatus{
	StatusPendingApproval: {StatusModified, StatusScheduled, StatusPosting},
	StatusModified:        {StatusModified, StatusScheduled, StatusPosting},
	StatusPosting:         {StatusPosted},
}

// CanTransition reports whether a draft may move from one status to another
func CanTransition(from, to DraftStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Video describes the media attached to a draft
type Video struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Uploaded     bool   `json:"uploaded"`
	Duration     int    `json:"duration"`
}

// PlatformResult is the outcome of one platform post
type PlatformResult struct {
	Success  bool   `json:"success"`
	Platform string `json:"platform"`
	PostID   string `json:"post_id,omitempty"`
	URL      string `json:"url,omitempty"`
	ChatID   string `json:"chat_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Draft is a generated reel awaiting review, approval or posting
type Draft struct {
	ID            string                    `json:"id"`
	RawText       string                    `json:"raw_text"`
	Platforms     []string                  `json:"platforms"`
	Style         string                    `json:"style"`
	StyleSettings map[string]any            `json:"style_settings,omitempty"`
	Content       content.Content           `json:"content"`
	Video         Video                     `json:"video"`
	Status        DraftStatus               `json:"status"`
	CreatedAt     time.Time                 `json:"created_at"`
	LastModified  time.Time                 `json:"last_modified"`
	ScheduledTime *time.Time                `json:"scheduled_time,omitempty"`
	PostedAt      *time.Time                `json:"posted_at,omitempty"`
	ExpiresAt     *time.Time                `json:"expires_at,omitempty"`
	Results       map[string]PlatformResult `json:"results,omitempty"`
	CustomChanges []string                  `json:"custom_changes,omitempty"`
}

// NewDraftID returns an id of the form draft_<unix-millis>_<7 random chars>
func NewDraftID(now time.Time) string {
	suffix := uuid.NewString()
	return fmt.Sprintf("draft_%d_%s", now.UnixMilli(), suffix[:7])
}

// Expired reports whether the retention window of a posted draft has passed
func (d *Draft) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && !now.Before(*d.ExpiresAt)
}

// Reviewable reports whether the draft can still be read, edited or approved
func (d *Draft) Reviewable(now time.Time) bool {
	return d.Status != StatusPosted && !d.Expired(now)
}

// Transition moves the draft to status or returns ErrInvalidTransition leaving it unchanged
func (d *Draft) Transition(to DraftStatus, now time.Time) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
	}
	d.Status = to
	d.LastModified = now
	return nil
}

// MarkPosted records the posting outcome and starts the retention window
func (d *Draft) MarkPosted(results map[string]PlatformResult, now time.Time, retention time.Duration) error {
	if err := d.Transition(StatusPosted, now); err != nil {
		return err
	}
	postedAt := now
	expiresAt := now.Add(retention)
	d.PostedAt = &postedAt
	d.ExpiresAt = &expiresAt
	d.Results = results
	return nil
}

// Clone returns a deep copy
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	out := *d
	out.Platforms = append([]string(nil), d.Platforms...)
	out.Content = d.Content.Clone()
	out.CustomChanges = append([]string(nil), d.CustomChanges...)
	if d.StyleSettings != nil {
		out.StyleSettings = make(map[string]any, len(d.StyleSettings))
		for k, v := range d.StyleSettings {
			out.StyleSettings[k] = v
		}
	}
	if d.Results != nil {
		out.Results = make(map[string]PlatformResult, len(d.Results))
		for k, v := range d.Results {
			out.Results[k] = v
		}
	}
	out.ScheduledTime = cloneTime(d.ScheduledTime)
	out.PostedAt = cloneTime(d.PostedAt)
	out.ExpiresAt = cloneTime(d.ExpiresAt)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
