package platform

import (
	"context"
	"net/http"

	"github.com/cuongbtq/jobreel/internal/config"
)

type FacebookClient struct {
	creds   config.FacebookCredentials
	baseURL string
	client  *http.Client
}

func NewFacebookClient(creds config.FacebookCredentials, baseURL string, client *http.Client) *FacebookClient {
	return &FacebookClient{creds: creds, baseURL: baseURL, client: client}
}

func (c *FacebookClient) Name() string { return Facebook }

func (c *FacebookClient) Publish(ctx context.Context, p Publication) (*Receipt, error) {
	name := DisplayName(Facebook)
	if c.creds.AccessToken == "" || c.creds.PageID == "" {
		return nil, notConfigured(name, "Facebook access token or page ID not configured")
	}

	resp, err := postJSON(ctx, c.client, joinURL(c.baseURL, graphVersion, c.creds.PageID, "feed"), map[string]string{
		"message":      p.Text,
		"access_token": c.creds.AccessToken,
	}, nil)
	if err != nil {
		return nil, transportError(name, err)
	}
	if !resp.ok() {
		return nil, translateGraphError(name, resp)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := resp.decode(&out); err != nil || out.ID == "" {
		return nil, apiError(name, CauseRejected, resp.StatusCode, "response has no post id")
	}

	return &Receipt{
		PostID: out.ID,
		URL:    "https://facebook.com/" + out.ID,
	}, nil
}
