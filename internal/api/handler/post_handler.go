package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/jobreel/internal/api/dto"
	"github.com/cuongbtq/jobreel/internal/platform"
	"github.com/cuongbtq/jobreel/internal/workflow"
	"github.com/gin-gonic/gin"
)

// PostMessage handles POST /api/post
// Posts the same text to every plain text platform at once
func (h *PostHandler) PostMessage(c *gin.Context) {
	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, msgInvalidBody)
		return
	}

	res, err := h.workflow.PostMessage(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, h.logger, h.production, err, "Not found", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.PostResponse{
		Success:  res.Summary.OK(),
		Message:  fmt.Sprintf("Posted to %d/%d platforms successfully", res.Summary.Success, res.Summary.Total),
		Results:  res.Results,
		PostedAt: res.PostedAt.UTC().Format(isoMillis),
	})
}

// Health handles GET /api/health
// With a database configured the pool is checked too; a failed check answers 503.
func (h *PostHandler) Health(c *gin.Context) {
	now := h.now()
	resp := dto.HealthResponse{
		Status:    "OK",
		Timestamp: now.UTC().Format(isoMillis),
		Uptime:    now.Sub(h.startedAt).Seconds(),
	}

	status := http.StatusOK
	if h.database != nil {
		stats := h.database.Stats()
		resp.Database = &dto.DatabaseHealth{Status: "OK", Pool: &stats}
		if err := h.database.HealthCheck(c.Request.Context()); err != nil {
			h.logger.Error("Database health check failed", slog.String("error", err.Error()))
			resp.Status = "DEGRADED"
			resp.Database.Status = "DOWN"
			if !h.production {
				resp.Database.Error = err.Error()
			}
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}

// Test handles GET /api/test
func (h *PostHandler) Test(c *gin.Context) {
	names := make([]string, 0, len(h.plainPlatforms))
	for _, p := range h.plainPlatforms {
		names = append(names, platform.DisplayName(p))
	}

	c.JSON(http.StatusOK, dto.TestResponse{
		Message:       "Social Media Poster API is running!",
		Platforms:     names,
		MaxCharacters: workflow.MaxMessageLength,
	})
}
