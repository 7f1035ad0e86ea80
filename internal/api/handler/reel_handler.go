package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/api/dto"
	"github.com/cuongbtq/jobreel/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// isoMillis matches the timestamp format used in API responses
	isoMillis = "2006-01-02T15:04:05.000Z"

	maxPageSize = 100
)

// GeneratePreview handles POST /api/generate-reel-preview
// Accepts JSON or a multipart form with an optional "video" file
func (h *ReelHandler) GeneratePreview(c *gin.Context) {
	req, err := h.bindPreview(c)
	if err != nil {
		respondError(c, h.logger, h.production, err, msgDraftNotFound, "Failed to generate reel preview")
		return
	}

	h.logger.Info("GeneratePreview called",
		slog.Int("text_length", len(req.Text)),
		slog.Any("platforms", req.Platforms),
		slog.String("style", req.Style),
		slog.Bool("has_file", req.Upload != nil),
	)

	res, err := h.workflow.GeneratePreview(c.Request.Context(), req)
	if err != nil {
		if req.Upload != nil {
			_ = os.Remove(req.Upload.Path)
		}
		respondError(c, h.logger, h.production, err, msgDraftNotFound, "Failed to generate reel preview")
		return
	}

	previews := make(map[string]dto.PlatformPreviewDTO, len(res.PlatformPreviews))
	for name, p := range res.PlatformPreviews {
		previews[name] = dto.PlatformPreviewDTO(p)
	}

	c.JSON(http.StatusOK, dto.PreviewResponse{
		Success: true,
		Message: "Reel preview generated successfully",
		DraftID: res.Draft.ID,
		Preview: dto.PreviewDTO{
			Content:         res.Preview.Content,
			OriginalText:    res.Preview.OriginalText,
			ThumbnailURL:    res.Preview.ThumbnailURL,
			VideoPreviewURL: res.Preview.VideoPreviewURL,
			Duration:        res.Preview.Duration,
			Style:           res.Preview.Style,
			IsUploaded:      res.Preview.Uploaded,
		},
		PlatformPreviews: previews,
		Suggestions:      res.Suggestions,
	})
}

func (h *ReelHandler) bindPreview(c *gin.Context) (workflow.PreviewRequest, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		var body dto.GeneratePreviewRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			h.logger.Error("Invalid request body", slog.String("error", err.Error()))
			return workflow.PreviewRequest{}, domain.NewValidationError("body", msgInvalidBody)
		}
		return workflow.PreviewRequest{
			Text:          body.JobUpdate,
			Platforms:     dto.SplitList(body.Platforms...),
			Style:         body.Style,
			StyleSettings: body.StyleSettings,
		}, nil
	}

	req := workflow.PreviewRequest{
		Text:      c.PostForm("job_update"),
		Platforms: dto.SplitList(c.PostFormArray("platforms")...),
		Style:     c.PostForm("style"),
	}

	if raw := c.PostForm("style_settings"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.StyleSettings); err != nil {
			return workflow.PreviewRequest{}, domain.NewValidationError("style_settings", "Invalid style_settings JSON")
		}
	}

	upload, err := h.saveUpload(c)
	if err != nil {
		return workflow.PreviewRequest{}, err
	}
	req.Upload = upload
	return req, nil
}

// saveUpload stores the "video" form file under the upload directory
func (h *ReelHandler) saveUpload(c *gin.Context) (*workflow.Upload, error) {
	fh, err := c.FormFile("video")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewValidationError("video", "Invalid video upload")
	}

	if h.uploads.MaxBytes > 0 && fh.Size > h.uploads.MaxBytes {
		return nil, domain.NewValidationError("video", "Video exceeds the %d MB upload limit", h.uploads.MaxBytes>>20)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], filepath.Ext(fh.Filename))
	dst := filepath.Join(h.uploads.Dir, name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		h.logger.Error("Failed to save uploaded video",
			slog.String("filename", fh.Filename),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to save uploaded video: %w", err)
	}

	h.logger.Info("Video uploaded",
		slog.String("original_name", fh.Filename),
		slog.String("path", dst),
		slog.Int64("size", fh.Size),
	)

	return &workflow.Upload{Path: dst, OriginalName: fh.Filename, Size: fh.Size}, nil
}

// EditDraft handles PUT /api/edit-reel-draft/:draftId
func (h *ReelHandler) EditDraft(c *gin.Context) {
	draftID := c.Param("draftId")

	var body dto.EditDraftRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, msgInvalidBody)
		return
	}

	res, err := h.workflow.EditDraft(c.Request.Context(), draftID, workflow.EditRequest{
		Overrides:     body.Overrides,
		Style:         body.Style,
		Platforms:     dto.SplitList(body.Platforms...),
		CustomChanges: body.CustomChanges,
	})
	if err != nil {
		respondError(c, h.logger, h.production, err, msgDraftNotFound, "Failed to update reel draft")
		return
	}

	c.JSON(http.StatusOK, dto.EditResponse{
		Success: true,
		Message: "Reel draft updated successfully",
		DraftID: res.Draft.ID,
		UpdatedPreview: dto.UpdatedPreviewDTO{
			Content:         res.Preview.Content,
			ThumbnailURL:    res.Preview.ThumbnailURL,
			VideoPreviewURL: res.Preview.VideoPreviewURL,
			LastModified:    res.Preview.LastModified,
		},
		Changes: dto.ChangesDTO{
			Applied:       nonNil(res.Applied),
			CustomChanges: nonNil(res.CustomChanges),
		},
	})
}

// ApproveAndPost handles POST /api/approve-and-post-reel/:draftId
func (h *ReelHandler) ApproveAndPost(c *gin.Context) {
	draftID := c.Param("draftId")

	var body dto.ApproveRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, msgInvalidBody)
		return
	}

	res, err := h.workflow.ApproveDraft(c.Request.Context(), draftID, workflow.ApproveRequest{
		FinalApproval: body.FinalApproval,
		ScheduledTime: body.ScheduledTime,
	})
	if err != nil {
		respondError(c, h.logger, h.production, err, msgDraftNotFound, "Failed to post approved reel")
		return
	}

	if res.Scheduled {
		at := *res.Draft.ScheduledTime
		c.JSON(http.StatusOK, dto.ScheduledResponse{
			Success:       true,
			Message:       fmt.Sprintf("Reel scheduled for posting at %s", at.Format(time.RFC1123)),
			DraftID:       res.Draft.ID,
			Status:        res.Draft.Status,
			ScheduledTime: at,
		})
		return
	}

	c.JSON(http.StatusOK, dto.PostedReelResponse{
		Success: res.Summary.OK(),
		Message: fmt.Sprintf("Job reel posted to %d/%d platforms successfully", res.Summary.Success, res.Summary.Total),
		DraftID: res.Draft.ID,
		Results: res.Results,
		Summary: dto.SummaryDTO{
			TotalPlatforms: res.Summary.Total,
			SuccessCount:   res.Summary.Success,
			FailedCount:    res.Summary.Failed,
			SuccessRate:    res.Summary.Rate(),
		},
		PostedAt: res.Draft.PostedAt.UTC().Format(isoMillis),
	})
}

// GetDraft handles GET /api/reel-draft/:draftId
func (h *ReelHandler) GetDraft(c *gin.Context) {
	d, err := h.workflow.GetDraft(c.Request.Context(), c.Param("draftId"))
	if err != nil {
		respondError(c, h.logger, h.production, err, msgDraftNotFound, "Failed to retrieve draft")
		return
	}

	c.JSON(http.StatusOK, dto.DraftResponse{
		Success: true,
		Draft: dto.DraftDTO{
			ID:            d.ID,
			JobUpdate:     d.RawText,
			Platforms:     d.Platforms,
			Style:         d.Style,
			Content:       d.Content,
			Status:        d.Status,
			CreatedAt:     d.CreatedAt,
			LastModified:  d.LastModified,
			ScheduledTime: d.ScheduledTime,
			IsUploaded:    d.Video.Uploaded,
		},
	})
}

// ListDrafts handles GET /api/reel-drafts
// Supports optional status filter and cursor pagination
func (h *ReelHandler) ListDrafts(c *gin.Context) {
	var req dto.ListDraftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		badRequest(c, "Invalid query parameters")
		return
	}

	if req.PageSize < 0 {
		req.PageSize = 0
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	cursor, err := DecodeDraftCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		badRequest(c, "Invalid cursor")
		return
	}

	page, err := h.workflow.ListDrafts(c.Request.Context(), workflow.ListOptions{
		Status:   domain.DraftStatus(req.Status),
		PageSize: req.PageSize,
		Cursor:   cursor,
	})
	if err != nil {
		respondError(c, h.logger, h.production, err, msgDraftNotFound, "Failed to retrieve drafts")
		return
	}

	out := make([]dto.DraftSummaryDTO, 0, len(page.Drafts))
	for _, d := range page.Drafts {
		out = append(out, dto.DraftSummaryDTO{
			ID:           d.ID,
			JobUpdate:    d.Excerpt,
			Platforms:    d.Platforms,
			Status:       d.Status,
			CreatedAt:    d.CreatedAt,
			LastModified: d.LastModified,
			IsUploaded:   d.Uploaded,
		})
	}

	resp := dto.ListDraftsResponse{Success: true, Drafts: out, Total: len(out)}
	if page.Next != nil {
		resp.NextCursor = EncodeDraftCursor(page.Next)
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteDraft handles DELETE /api/reel-draft/:draftId
func (h *ReelHandler) DeleteDraft(c *gin.Context) {
	if err := h.workflow.DeleteDraft(c.Request.Context(), c.Param("draftId")); err != nil {
		respondError(c, h.logger, h.production, err, "Draft not found", "Failed to delete draft")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Draft deleted successfully"})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
