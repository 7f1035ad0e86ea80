package platform

import (
	"context"
	"net/http"
	"time"

	"github.com/cuongbtq/jobreel/internal/config"
)

// InstagramClient publishes reels through a media container
type InstagramClient struct {
	creds        config.InstagramCredentials
	baseURL      string
	publishDelay time.Duration
	client       *http.Client
}

func NewInstagramClient(creds config.InstagramCredentials, baseURL string, publishDelay time.Duration, client *http.Client) *InstagramClient {
	return &InstagramClient{creds: creds, baseURL: baseURL, publishDelay: publishDelay, client: client}
}

func (c *InstagramClient) Name() string { return Instagram }

type graphID struct {
	ID string `json:"id"`
}

func (c *InstagramClient) Publish(ctx context.Context, p Publication) (*Receipt, error) {
	name := DisplayName(Instagram)
	if c.creds.AccessToken == "" || c.creds.AccountID == "" {
		return nil, notConfigured(name, "Instagram API credentials not configured")
	}
	if p.MediaURL == "" {
		return nil, apiError(name, CauseRejected, 0, "Reel video must be reachable at a public URL")
	}

	resp, err := postJSON(ctx, c.client, joinURL(c.baseURL, graphVersion, c.creds.AccountID, "media"), map[string]string{
		"media_type":   "REELS",
		"video_url":    p.MediaURL,
		"caption":      p.Text,
		"access_token": c.creds.AccessToken,
	}, nil)
	if err != nil {
		return nil, transportError(name, err)
	}
	if !resp.ok() {
		return nil, translateGraphError(name, resp)
	}

	var container graphID
	if err := resp.decode(&container); err != nil || container.ID == "" {
		return nil, apiError(name, CauseRejected, resp.StatusCode, "media container has no id")
	}

	// the container must finish processing before it can be published
	select {
	case <-ctx.Done():
		return nil, transportError(name, ctx.Err())
	case <-time.After(c.publishDelay):
	}

	resp, err = postJSON(ctx, c.client, joinURL(c.baseURL, graphVersion, c.creds.AccountID, "media_publish"), map[string]string{
		"creation_id":  container.ID,
		"access_token": c.creds.AccessToken,
	}, nil)
	if err != nil {
		return nil, transportError(name, err)
	}
	if !resp.ok() {
		return nil, translateGraphError(name, resp)
	}

	var published graphID
	if err := resp.decode(&published); err != nil || published.ID == "" {
		return nil, apiError(name, CauseRejected, resp.StatusCode, "published media has no id")
	}

	return &Receipt{
		PostID: published.ID,
		URL:    "https://instagram.com/p/" + published.ID,
	}, nil
}
