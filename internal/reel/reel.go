// Package reel renders the preview thumbnail and placeholder video of a draft.
package reel

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cuongbtq/jobreel/internal/content"
)

const (
	// ReelDuration is the total length of the four frames in seconds
	ReelDuration = 15

	placeholderPreviewURL = "./placeholder-preview.mp4"
)

// Config controls where rendered reels are written and how they are exposed
type Config struct {
	OutputDir     string
	PublicBaseURL string
	DefaultStyle  string
}

// Preview is what a client needs to show a draft before approval
type Preview struct {
	ThumbnailURL    string `json:"thumbnail_url"`
	VideoPreviewURL string `json:"video_preview_url"`
	Duration        int    `json:"duration"`
}

// Result describes a rendered reel
type Result struct {
	VideoPath string
	FramePath string
	Duration  int
	Frames    []Frame
}

type Renderer struct {
	cfg    Config
	logger *slog.Logger
}

func NewRenderer(cfg Config, logger *slog.Logger) *Renderer {
	if cfg.DefaultStyle == "" {
		cfg.DefaultStyle = StyleProfessional
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// EnsureDirs creates the output directory
func (r *Renderer) EnsureDirs() error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create reel output dir: %w", err)
	}
	return nil
}

// Preview builds the thumbnail data URL for c
func (r *Renderer) Preview(c content.Content, style string) Preview {
	return Preview{
		ThumbnailURL:    Thumbnail(c, r.resolveStyle(style)),
		VideoPreviewURL: placeholderPreviewURL,
		Duration:        ReelDuration,
	}
}

// Render draws the reel frames and saves the first one as a placeholder for the video at <name>.mp4
func (r *Renderer) Render(c content.Content, name string) (*Result, error) {
	frames := Frames(c)

	img := frames[0].Draw()
	framePath := filepath.Join(r.cfg.OutputDir, name+".png")
	if err := writePNG(framePath, img); err != nil {
		return nil, err
	}

	videoPath := filepath.Join(r.cfg.OutputDir, name+".mp4")
	r.logger.Info("reel rendered",
		slog.String("video_path", videoPath),
		slog.Int("frames", len(frames)),
	)

	return &Result{
		VideoPath: videoPath,
		FramePath: framePath,
		Duration:  ReelDuration,
		Frames:    frames,
	}, nil
}

// PublicURL returns the URL under which platforms can fetch the file at p, or "" when not exposed
func (r *Renderer) PublicURL(p string) string {
	if r.cfg.PublicBaseURL == "" || p == "" {
		return ""
	}
	base, err := url.Parse(r.cfg.PublicBaseURL)
	if err != nil {
		return ""
	}
	base.Path = path.Join(base.Path, filepath.Base(p))
	return base.String()
}

func (r *Renderer) resolveStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	if _, ok := gradients[style]; ok {
		return style
	}
	return r.cfg.DefaultStyle
}
