package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cuongbtq/jobreel/internal/config"
	"github.com/dghubble/oauth1"
)

const (
	tweetMaxRunes      = 280
	tweetTruncateRunes = 276
)

type TwitterClient struct {
	creds   config.TwitterCredentials
	baseURL string
	client  *http.Client
}

func NewTwitterClient(creds config.TwitterCredentials, baseURL string, client *http.Client) *TwitterClient {
	return &TwitterClient{creds: creds, baseURL: baseURL, client: client}
}

func (c *TwitterClient) Name() string { return Twitter }

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (c *TwitterClient) Publish(ctx context.Context, p Publication) (*Receipt, error) {
	name := DisplayName(Twitter)
	if c.creds.APIKey == "" || c.creds.APISecret == "" || c.creds.AccessToken == "" || c.creds.AccessTokenSecret == "" {
		return nil, notConfigured(name, "Twitter API credentials not configured")
	}

	// user context: OAuth 1.0a signed with the consumer pair and the access token pair
	signer := oauth1.NewConfig(c.creds.APIKey, c.creds.APISecret)
	ctx = context.WithValue(ctx, oauth1.HTTPClient, c.client)
	authed := signer.Client(ctx, oauth1.NewToken(c.creds.AccessToken, c.creds.AccessTokenSecret))

	resp, err := postJSON(ctx, authed, joinURL(c.baseURL, "2", "tweets"), map[string]string{
		"text": TruncateTweet(p.Text),
	}, nil)
	if err != nil {
		return nil, transportError(name, err)
	}

	var out tweetResponse
	_ = resp.decode(&out)

	if !resp.ok() {
		msg := fmt.Sprintf("Request failed with code %d", resp.StatusCode)
		if out.Detail != "" {
			msg += " - " + out.Detail
		}
		return nil, apiError(name, twitterCause(resp.StatusCode), resp.StatusCode, msg)
	}

	if out.Data.ID == "" {
		return nil, apiError(name, CauseRejected, resp.StatusCode, "response has no tweet id")
	}

	return &Receipt{
		PostID: out.Data.ID,
		URL:    "https://twitter.com/user/status/" + out.Data.ID,
	}, nil
}

func twitterCause(status int) Cause {
	switch status {
	case http.StatusUnauthorized:
		return CauseInvalidToken
	case http.StatusForbidden:
		return CausePermission
	case http.StatusTooManyRequests:
		return CauseRateLimited
	}
	return CauseRejected
}

// TruncateTweet keeps text within the tweet limit, cutting to 276 runes plus "..."
func TruncateTweet(text string) string {
	r := []rune(text)
	if len(r) <= tweetMaxRunes {
		return text
	}
	return string(r[:tweetTruncateRunes]) + "..."
}
