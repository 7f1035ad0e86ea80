package router

import (
	"net/http"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/dto"
	"github.com/cuongbtq/jobreel/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// Options holds router level settings that are not handler dependencies
type Options struct {
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	MaxBodyBytes      int64
	// MediaDir is served under /media/reels so platforms can fetch rendered reels
	MediaDir string
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, opts Options) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(RecoveryMiddleware(deps.Logger))
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(SecurityHeadersMiddleware())
	r.Use(CORSMiddleware())
	if opts.RateLimitEnabled {
		r.Use(RateLimitMiddleware(NewIPRateLimiter(opts.RateLimitRequests, opts.RateLimitWindow)))
	}
	r.Use(BodyLimitMiddleware(opts.MaxBodyBytes))

	if opts.MediaDir != "" {
		r.Static("/media/reels", opts.MediaDir)
	}

	reelHandler := handler.NewReelHandler(deps)
	postHandler := handler.NewPostHandler(deps)

	api := r.Group("/api")
	{
		// Reel draft workflow
		api.POST("/generate-reel-preview", reelHandler.GeneratePreview)
		api.PUT("/edit-reel-draft/:draftId", reelHandler.EditDraft)
		api.POST("/approve-and-post-reel/:draftId", reelHandler.ApproveAndPost)
		api.GET("/reel-draft/:draftId", reelHandler.GetDraft)
		api.GET("/reel-drafts", reelHandler.ListDrafts)
		api.DELETE("/reel-draft/:draftId", reelHandler.DeleteDraft)

		// Plain text posting
		api.POST("/post", postHandler.PostMessage)

		api.GET("/health", postHandler.Health)
		api.GET("/test", postHandler.Test)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Endpoint not found"})
	})

	return r
}
