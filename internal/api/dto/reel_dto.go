package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/content"
	"github.com/cuongbtq/jobreel/shared/postgresql"
)

// StringList accepts either a JSON array of strings or a single comma separated string
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a string or a list of strings")
	}
	*l = SplitList(s)
	return nil
}

// SplitList splits comma separated values, dropping blanks
func SplitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type GeneratePreviewRequest struct {
	JobUpdate     string         `json:"job_update"`
	Platforms     StringList     `json:"platforms"`
	Style         string         `json:"style"`
	StyleSettings map[string]any `json:"style_settings"`
}

type EditDraftRequest struct {
	content.Overrides
	Style         *string    `json:"style"`
	Platforms     StringList `json:"platforms"`
	CustomChanges StringList `json:"custom_changes"`
}

type ApproveRequest struct {
	FinalApproval *bool      `json:"final_approval"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

type PostRequest struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PreviewDTO struct {
	Content         content.Content `json:"content"`
	OriginalText    string          `json:"original_text"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	VideoPreviewURL string          `json:"video_preview_url"`
	Duration        int             `json:"duration"`
	Style           string          `json:"style"`
	IsUploaded      bool            `json:"is_uploaded"`
}

type PlatformPreviewDTO struct {
	Caption     string `json:"caption,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format"`
	MaxDuration string `json:"max_duration,omitempty"`
	CrossPost   string `json:"cross_post,omitempty"`
	FileSize    string `json:"file_size,omitempty"`
}

type PreviewResponse struct {
	Success          bool                          `json:"success"`
	Message          string                        `json:"message"`
	DraftID          string                        `json:"draft_id"`
	Preview          PreviewDTO                    `json:"preview"`
	PlatformPreviews map[string]PlatformPreviewDTO `json:"platform_previews"`
	Suggestions      []string                      `json:"suggestions"`
}

type UpdatedPreviewDTO struct {
	Content         content.Content `json:"content"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	VideoPreviewURL string          `json:"video_preview_url"`
	LastModified    time.Time       `json:"last_modified"`
}

type ChangesDTO struct {
	Applied       []string `json:"applied"`
	CustomChanges []string `json:"custom_changes"`
}

type EditResponse struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message"`
	DraftID        string            `json:"draft_id"`
	UpdatedPreview UpdatedPreviewDTO `json:"updated_preview"`
	Changes        ChangesDTO        `json:"changes"`
}

type ScheduledResponse struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	DraftID       string             `json:"draft_id"`
	Status        domain.DraftStatus `json:"status"`
	ScheduledTime time.Time          `json:"scheduled_time"`
}

type SummaryDTO struct {
	TotalPlatforms int    `json:"total_platforms"`
	SuccessCount   int    `json:"success_count"`
	FailedCount    int    `json:"failed_count"`
	SuccessRate    string `json:"success_rate"`
}

type PostedReelResponse struct {
	Success  bool                             `json:"success"`
	Message  string                           `json:"message"`
	DraftID  string                           `json:"draft_id"`
	Results  map[string]domain.PlatformResult `json:"results"`
	Summary  SummaryDTO                       `json:"summary"`
	PostedAt string                           `json:"posted_at"`
}

type DraftDTO struct {
	ID            string             `json:"id"`
	JobUpdate     string             `json:"job_update"`
	Platforms     []string           `json:"platforms"`
	Style         string             `json:"style"`
	Content       content.Content    `json:"content"`
	Status        domain.DraftStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	LastModified  time.Time          `json:"last_modified"`
	ScheduledTime *time.Time         `json:"scheduled_time,omitempty"`
	IsUploaded    bool               `json:"is_uploaded"`
}

type DraftResponse struct {
	Success bool     `json:"success"`
	Draft   DraftDTO `json:"draft"`
}

type DraftSummaryDTO struct {
	ID           string             `json:"id"`
	JobUpdate    string             `json:"job_update"`
	Platforms    []string           `json:"platforms"`
	Status       domain.DraftStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	LastModified time.Time          `json:"last_modified"`
	IsUploaded   bool               `json:"is_uploaded"`
}

type ListDraftsRequest struct {
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListDraftsResponse struct {
	Success    bool              `json:"success"`
	Drafts     []DraftSummaryDTO `json:"drafts"`
	Total      int               `json:"total"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

type PostResponse struct {
	Success  bool                             `json:"success"`
	Message  string                           `json:"message"`
	Results  map[string]domain.PlatformResult `json:"results"`
	PostedAt string                           `json:"posted_at"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Uptime    float64         `json:"uptime"`
	Database  *DatabaseHealth `json:"database,omitempty"`
}

type DatabaseHealth struct {
	Status string                `json:"status"`
	Error  string                `json:"error,omitempty"`
	Pool   *postgresql.PoolStats `json:"pool,omitempty"`
}

type TestResponse struct {
	Message       string   `json:"message"`
	Platforms     []string `json:"platforms"`
	MaxCharacters int      `json:"max_characters"`
}
