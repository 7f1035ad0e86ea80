// Package platform publishes reels and text posts to social networks.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/cuongbtq/jobreel/internal/config"
)

// Platform names as used in requests and results
const (
	Twitter   = "twitter"
	LinkedIn  = "linkedin"
	Facebook  = "facebook"
	Instagram = "instagram"
	YouTube   = "youtube"
	Telegram  = "telegram"
	WhatsApp  = "whatsapp"
)

// Publication is the content handed to a single platform
type Publication struct {
	Text        string
	Title       string
	Description string
	MediaPath   string
	MediaURL    string
}

// Receipt identifies a successful post
type Receipt struct {
	PostID string
	URL    string
	ChatID string
}

// Client posts to one platform. Publish makes a single attempt and never retries.
type Client interface {
	Name() string
	Publish(ctx context.Context, p Publication) (*Receipt, error)
}

// Registry resolves platform names to clients
type Registry struct {
	clients map[string]Client
}

func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[string]Client, len(clients))}
	for _, c := range clients {
		r.clients[c.Name()] = c
	}
	return r
}

// NewDefaultRegistry wires every supported platform from credentials and settings
func NewDefaultRegistry(creds *config.Credentials, cfg config.PlatformsConfig) *Registry {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	base := func(name, fallback string) string {
		if u := cfg.BaseURLs[name]; u != "" {
			return u
		}
		return fallback
	}

	return NewRegistry(
		NewTwitterClient(creds.Twitter, base(Twitter, defaultTwitterURL), httpClient),
		NewLinkedInClient(creds.LinkedIn, base(LinkedIn, defaultLinkedInURL), httpClient),
		NewFacebookClient(creds.Facebook, base(Facebook, defaultGraphURL), httpClient),
		NewInstagramClient(creds.Instagram, base(Instagram, defaultGraphURL), cfg.InstagramPublishDelay, httpClient),
		NewYouTubeClient(creds.YouTube, base(YouTube, defaultYouTubeURL), base("youtube_token", defaultGoogleTokenURL), httpClient),
		NewTelegramClient(creds.Telegram, base(Telegram, defaultTelegramURL), httpClient),
		NewWhatsAppClient(creds.WhatsApp, base(WhatsApp, defaultGraphURL), cfg.WhatsAppEnabled, httpClient),
	)
}

// Get returns the client registered under name
func (r *Registry) Get(name string) (Client, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, name)
	}
	return c, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.clients[name]
	return ok
}

// Names lists registered platforms in alphabetical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var displayNames = map[string]string{
	Twitter:   "Twitter",
	LinkedIn:  "LinkedIn",
	Facebook:  "Facebook",
	Instagram: "Instagram",
	YouTube:   "YouTube",
	Telegram:  "Telegram",
	WhatsApp:  "WhatsApp",
}

// DisplayName returns the human readable name of a platform
func DisplayName(name string) string {
	if d, ok := displayNames[name]; ok {
		return d
	}
	return name
}
