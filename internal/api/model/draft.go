package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/jmoiron/sqlx/types"
)

// DraftRow is the reel_drafts table row
type DraftRow struct {
	DraftID       string         `db:"draft_id"`
	RawText       string         `db:"raw_text"`
	Platforms     types.JSONText `db:"platforms"`
	Style         string         `db:"style"`
	StyleSettings types.JSONText `db:"style_settings"`
	Content       types.JSONText `db:"content"`
	Video         types.JSONText `db:"video"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	LastModified  time.Time      `db:"last_modified"`
	ScheduledTime *time.Time     `db:"scheduled_time"`
	PostedAt      *time.Time     `db:"posted_at"`
	ExpiresAt     *time.Time     `db:"expires_at"`
	Results       types.JSONText `db:"results"`
	CustomChanges types.JSONText `db:"custom_changes"`
}

// NewDraftRow encodes a draft for storage
func NewDraftRow(d *domain.Draft) (*DraftRow, error) {
	row := &DraftRow{
		DraftID:       d.ID,
		RawText:       d.RawText,
		Style:         d.Style,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
		LastModified:  d.LastModified,
		ScheduledTime: d.ScheduledTime,
		PostedAt:      d.PostedAt,
		ExpiresAt:     d.ExpiresAt,
	}

	fields := []struct {
		name string
		dst  *types.JSONText
		src  any
	}{
		{"platforms", &row.Platforms, d.Platforms},
		{"style_settings", &row.StyleSettings, d.StyleSettings},
		{"content", &row.Content, d.Content},
		{"video", &row.Video, d.Video},
		{"results", &row.Results, d.Results},
		{"custom_changes", &row.CustomChanges, d.CustomChanges},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.src)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.name, err)
		}
		*f.dst = b
	}
	return row, nil
}

// ToDomain decodes the row
func (r *DraftRow) ToDomain() (*domain.Draft, error) {
	d := &domain.Draft{
		ID:            r.DraftID,
		RawText:       r.RawText,
		Style:         r.Style,
		Status:        domain.DraftStatus(r.Status),
		CreatedAt:     r.CreatedAt,
		LastModified:  r.LastModified,
		ScheduledTime: r.ScheduledTime,
		PostedAt:      r.PostedAt,
		ExpiresAt:     r.ExpiresAt,
	}

	fields := []struct {
		name string
		src  types.JSONText
		dst  any
	}{
		{"platforms", r.Platforms, &d.Platforms},
		{"style_settings", r.StyleSettings, &d.StyleSettings},
		{"content", r.Content, &d.Content},
		{"video", r.Video, &d.Video},
		{"results", r.Results, &d.Results},
		{"custom_changes", r.CustomChanges, &d.CustomChanges},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s of draft %s: %w", f.name, r.DraftID, err)
		}
	}
	return d, nil
}
