package workflow

import (
	"fmt"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/platform"
)

const facebookReelNote = "📹 Check out our latest job update reel!"

// PlatformPreview shows how a draft will appear on one platform
type PlatformPreview struct {
	Caption     string
	Title       string
	Description string
	Format      string
	MaxDuration string
	CrossPost   string
	FileSize    string
}

var suggestions = []string{
	"Add more specific job requirements",
	"Include salary range if applicable",
	"Add company benefits",
	"Mention application deadline",
	"Include location details",
}

// Suggestions returns the content improvement hints shown with every preview
func Suggestions() []string {
	return append([]string(nil), suggestions...)
}

func joinBlocks(blocks ...string) string {
	out := ""
	for _, b := range blocks {
		if b == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += b
	}
	return out
}

// compose builds the publication sent to name for the draft
func (s *Service) compose(d *domain.Draft, name string) platform.Publication {
	c := d.Content
	media := platform.Publication{MediaPath: d.Video.Path}
	if !d.Video.Uploaded {
		media.MediaURL = s.renderer.PublicURL(d.Video.Path)
	}

	switch name {
	case platform.Instagram:
		media.Text = joinBlocks(c.Title, c.Hashtags)
	case platform.YouTube:
		media.Title = c.Title
		media.Description = joinBlocks(d.RawText, c.Hashtags)
	case platform.Facebook:
		return platform.Publication{Text: joinBlocks(d.RawText, facebookReelNote, c.Hashtags)}
	case platform.Telegram:
		media.Text = joinBlocks(d.RawText, c.Hashtags)
	case platform.Twitter:
		return platform.Publication{Text: joinBlocks(c.Title, c.Hook, c.Hashtags)}
	case platform.LinkedIn:
		return platform.Publication{Text: joinBlocks(c.Title, d.RawText, c.Hashtags)}
	default:
		return platform.Publication{Text: joinBlocks(d.RawText, c.Hashtags)}
	}
	return media
}

// PlatformPreviews describes the post each selected platform will receive
func (s *Service) PlatformPreviews(d *domain.Draft) map[string]PlatformPreview {
	out := make(map[string]PlatformPreview, len(d.Platforms))
	for _, name := range d.Platforms {
		pub := s.compose(d, name)
		switch name {
		case platform.Instagram:
			out[name] = PlatformPreview{Caption: pub.Text, Format: "Vertical Reel (9:16)", MaxDuration: "90 seconds"}
		case platform.YouTube:
			out[name] = PlatformPreview{
				Title:       pub.Title + " #Shorts",
				Description: pub.Description,
				Format:      "YouTube Shorts",
				MaxDuration: "60 seconds",
			}
		case platform.Facebook:
			out[name] = PlatformPreview{Caption: pub.Text, Format: "Video Post", CrossPost: "Also posted as reel"}
		case platform.Telegram:
			out[name] = PlatformPreview{Caption: pub.Text, Format: "Video Message", FileSize: fileSize(d.Video)}
		case platform.Twitter:
			out[name] = PlatformPreview{Caption: platform.TruncateTweet(pub.Text), Format: "Text Post"}
		case platform.LinkedIn:
			out[name] = PlatformPreview{Caption: pub.Text, Format: "Text Post"}
		default:
			out[name] = PlatformPreview{Caption: pub.Text, Format: "Text Message"}
		}
	}
	return out
}

func fileSize(v domain.Video) string {
	if !v.Uploaded || v.Size <= 0 {
		return "Generated"
	}
	return fmt.Sprintf("%.2f MB", float64(v.Size)/1024/1024)
}
