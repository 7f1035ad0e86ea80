package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/workflow"
	"github.com/cuongbtq/jobreel/shared/postgresql"
)

// Workflow is the draft and posting logic behind the HTTP handlers
type Workflow interface {
	GeneratePreview(ctx context.Context, req workflow.PreviewRequest) (*workflow.PreviewResult, error)
	EditDraft(ctx context.Context, id string, req workflow.EditRequest) (*workflow.EditResult, error)
	ApproveDraft(ctx context.Context, id string, req workflow.ApproveRequest) (*workflow.ApproveResult, error)
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)
	ListDrafts(ctx context.Context, opts workflow.ListOptions) (*workflow.DraftPage, error)
	DeleteDraft(ctx context.Context, id string) error
	PostMessage(ctx context.Context, message string) (*workflow.PostResult, error)
}

// DatabaseHealth is implemented by stores backed by a SQL connection pool
type DatabaseHealth interface {
	HealthCheck(ctx context.Context) error
	Stats() postgresql.PoolStats
}

// UploadConfig controls where user supplied videos are stored
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger         *slog.Logger
	Workflow       Workflow
	Uploads        UploadConfig
	Database       DatabaseHealth // nil unless storage.driver is postgres
	PlainPlatforms []string
	Production     bool
	StartedAt      time.Time
}

// ReelHandler handles the reel draft workflow
type ReelHandler struct {
	logger     *slog.Logger
	workflow   Workflow
	uploads    UploadConfig
	production bool
}

// NewReelHandler creates a new ReelHandler instance
func NewReelHandler(deps *Dependencies) *ReelHandler {
	return &ReelHandler{
		logger:     deps.Logger,
		workflow:   deps.Workflow,
		uploads:    deps.Uploads,
		production: deps.Production,
	}
}

// PostHandler handles plain multi-platform posts and the service info endpoints
type PostHandler struct {
	logger         *slog.Logger
	workflow       Workflow
	database       DatabaseHealth
	plainPlatforms []string
	production     bool
	startedAt      time.Time
	now            func() time.Time
}

// NewPostHandler creates a new PostHandler instance
func NewPostHandler(deps *Dependencies) *PostHandler {
	startedAt := deps.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return &PostHandler{
		logger:         deps.Logger,
		workflow:       deps.Workflow,
		database:       deps.Database,
		plainPlatforms: deps.PlainPlatforms,
		production:     deps.Production,
		startedAt:      startedAt,
		now:            time.Now,
	}
}
