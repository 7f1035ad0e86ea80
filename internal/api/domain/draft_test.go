package domain

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/cuongbtq/jobreel/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	pattern := regexp.MustCompile(`^draft_1700000000123_[0-9a-f]{7}$`)

	a, b := NewDraftID(now), NewDraftID(now)
	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
	assert.NotEqual(t, a, b)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to DraftStatus
		want     bool
	}{
		{StatusPendingApproval, StatusModified, true},
		{StatusModified, StatusModified, true},
		{StatusPendingApproval, StatusScheduled, true},
		{StatusModified, StatusPosting, true},
		{StatusPosting, StatusPosted, true},
		{StatusPendingApproval, StatusPosted, false},
		{StatusScheduled, StatusPosting, false},
		{StatusScheduled, StatusModified, false},
		{StatusPosted, StatusModified, false},
		{StatusPosting, StatusModified, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestDraft_Transition(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)

	d := &Draft{Status: StatusScheduled, LastModified: created}
	err := d.Transition(StatusModified, later)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StatusScheduled, d.Status)
	assert.Equal(t, created, d.LastModified)

	d.Status = StatusPendingApproval
	require.NoError(t, d.Transition(StatusModified, later))
	assert.Equal(t, StatusModified, d.Status)
	assert.Equal(t, later, d.LastModified)
}

func TestDraft_MarkPostedAndExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d := &Draft{Status: StatusPosting}

	results := map[string]PlatformResult{"telegram": {Success: true, Platform: "telegram"}}
	require.NoError(t, d.MarkPosted(results, now, 168*time.Hour))

	assert.Equal(t, StatusPosted, d.Status)
	assert.Equal(t, now, *d.PostedAt)
	assert.Equal(t, now.Add(168*time.Hour), *d.ExpiresAt)
	assert.False(t, d.Reviewable(now))
	assert.False(t, d.Expired(now.Add(167*time.Hour)))
	assert.True(t, d.Expired(now.Add(168*time.Hour)))

	pending := &Draft{Status: StatusPendingApproval}
	assert.True(t, pending.Reviewable(now.Add(1000*time.Hour)))
}

func TestDraft_Clone(t *testing.T) {
	ts := time.Now()
	d := &Draft{
		ID:            "draft_1_abcdefg",
		Platforms:     []string{"instagram"},
		StyleSettings: map[string]any{"font": "Arial"},
		Content:       content.Content{Points: []string{"a"}},
		Results:       map[string]PlatformResult{"instagram": {Success: true}},
		ScheduledTime: &ts,
	}

	c := d.Clone()
	c.Platforms[0] = "youtube"
	c.StyleSettings["font"] = "Mono"
	c.Content.Points[0] = "b"
	c.Results["instagram"] = PlatformResult{}
	*c.ScheduledTime = ts.Add(time.Hour)

	assert.Equal(t, "instagram", d.Platforms[0])
	assert.Equal(t, "Arial", d.StyleSettings["font"])
	assert.Equal(t, "a", d.Content.Points[0])
	assert.True(t, d.Results["instagram"].Success)
	assert.Equal(t, ts, *d.ScheduledTime)
	assert.Nil(t, (*Draft)(nil).Clone())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("job_update", "Job update content is required")

	assert.EqualError(t, err, "Job update content is required")
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(ErrDraftNotFound))
}
