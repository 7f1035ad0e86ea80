package platform

import (
	"context"
	"net/http"

	"github.com/cuongbtq/jobreel/internal/config"
)

type LinkedInClient struct {
	creds   config.LinkedInCredentials
	baseURL string
	client  *http.Client
}

func NewLinkedInClient(creds config.LinkedInCredentials, baseURL string, client *http.Client) *LinkedInClient {
	return &LinkedInClient{creds: creds, baseURL: baseURL, client: client}
}

func (c *LinkedInClient) Name() string { return LinkedIn }

type linkedInPost struct {
	Author                    string               `json:"author"`
	Commentary                string               `json:"commentary"`
	Visibility                string               `json:"visibility"`
	Distribution              linkedInDistribution `json:"distribution"`
	LifecycleState            string               `json:"lifecycleState"`
	IsReshareDisabledByAuthor bool                 `json:"isReshareDisabledByAuthor"`
}

type linkedInDistribution struct {
	FeedDistribution               string   `json:"feedDistribution"`
	TargetEntities                 []string `json:"targetEntities"`
	ThirdPartyDistributionChannels []string `json:"thirdPartyDistributionChannels"`
}

func (c *LinkedInClient) Publish(ctx context.Context, p Publication) (*Receipt, error) {
	name := DisplayName(LinkedIn)
	if c.creds.AccessToken == "" || c.creds.PersonID == "" {
		return nil, notConfigured(name, "LinkedIn access token not configured")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	header.Set("X-Restli-Protocol-Version", "2.0.0")
	header.Set("LinkedIn-Version", "202308")

	resp, err := postJSON(ctx, c.client, joinURL(c.baseURL, "rest", "posts"), linkedInPost{
		Author:     "urn:li:person:" + c.creds.PersonID,
		Commentary: p.Text,
		Visibility: "PUBLIC",
		Distribution: linkedInDistribution{
			FeedDistribution:               "MAIN_FEED",
			TargetEntities:                 []string{},
			ThirdPartyDistributionChannels: []string{},
		},
		LifecycleState: "PUBLISHED",
	}, header)
	if err != nil {
		return nil, transportError(name, err)
	}

	var out struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	_ = resp.decode(&out)

	if !resp.ok() {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, apiError(name, CauseInvalidToken, resp.StatusCode, "Access token expired or invalid")
		case http.StatusForbidden:
			return nil, apiError(name, CausePermission, resp.StatusCode, "Insufficient permissions or rate limit exceeded")
		case http.StatusUnprocessableEntity:
			return nil, apiError(name, CausePolicy, resp.StatusCode, "Invalid post data or content policy violation")
		case http.StatusTooManyRequests:
			return nil, apiError(name, CauseRateLimited, resp.StatusCode, "Rate limit exceeded")
		}
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apiError(name, CauseRejected, resp.StatusCode, msg)
	}

	// the posts API returns 201 with the urn in a header and an empty body
	id := out.ID
	if id == "" {
		id = resp.Header.Get("X-RestLi-Id")
	}

	receipt := &Receipt{PostID: id}
	if id != "" {
		receipt.URL = "https://www.linkedin.com/feed/update/" + id
	}
	return receipt, nil
}
