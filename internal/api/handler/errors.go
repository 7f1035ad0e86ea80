package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/api/dto"
	"github.com/gin-gonic/gin"
)

const (
	msgDraftNotFound = "Draft not found or expired"
	msgInvalidBody   = "Invalid request body"
)

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

// respondError maps workflow errors to status codes. fallback is shown for unexpected errors.
func respondError(c *gin.Context, logger *slog.Logger, production bool, err error, notFound, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		badRequest(c, verr.Message)
	case errors.Is(err, domain.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: notFound})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Draft cannot be changed in its current status", Details: details(production, err)})
	default:
		logger.Error(fallback,
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback, Details: details(production, err)})
	}
}

func details(production bool, err error) string {
	if production || err == nil {
		return ""
	}
	return err.Error()
}
