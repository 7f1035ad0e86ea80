package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/cuongbtq/jobreel/internal/config"
	"golang.org/x/oauth2"
)

// YouTubeClient uploads Shorts using a long lived refresh token
type YouTubeClient struct {
	creds    config.YouTubeCredentials
	baseURL  string
	tokenURL string
	client   *http.Client
}

func NewYouTubeClient(creds config.YouTubeCredentials, baseURL, tokenURL string, client *http.Client) *YouTubeClient {
	return &YouTubeClient{creds: creds, baseURL: baseURL, tokenURL: tokenURL, client: client}
}

func (c *YouTubeClient) Name() string { return YouTube }

type youTubeVideo struct {
	Snippet struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags,omitempty"`
		CategoryID  string   `json:"categoryId"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
}

func (c *YouTubeClient) Publish(ctx context.Context, p Publication) (*Receipt, error) {
	name := DisplayName(YouTube)
	if c.creds.ClientID == "" || c.creds.ClientSecret == "" || c.creds.RefreshToken == "" {
		return nil, notConfigured(name, "YouTube API credentials not configured")
	}

	video, err := os.Open(p.MediaPath)
	if err != nil {
		return nil, apiError(name, CauseRejected, 0, fmt.Sprintf("cannot open video: %v", err))
	}
	defer video.Close()

	var meta youTubeVideo
	meta.Snippet.Title = p.Title + " #Shorts"
	meta.Snippet.Description = p.Description + "\n\n#Shorts #JobUpdate #Career"
	meta.Snippet.Tags = []string{"Shorts", "JobUpdate", "Career"}
	meta.Snippet.CategoryID = "22"
	meta.Status.PrivacyStatus = "public"

	body, contentType, err := multipartRelated(meta, video)
	if err != nil {
		return nil, apiError(name, CauseRejected, 0, err.Error())
	}

	oauthCfg := &oauth2.Config{
		ClientID:     c.creds.ClientID,
		ClientSecret: c.creds.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: c.tokenURL},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	authed := oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: c.creds.RefreshToken})

	url := joinURL(c.baseURL, "upload", "youtube", "v3", "videos") + "?uploadType=multipart&part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, transportError(name, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := do(authed, req)
	if err != nil {
		var re *oauth2.RetrieveError
		if asRetrieveError(err, &re) {
			return nil, apiError(name, CauseInvalidToken, re.Response.StatusCode, "Refresh token expired or revoked")
		}
		return nil, transportError(name, err)
	}

	var out struct {
		ID    string `json:"id"`
		Error struct {
			Message string `json:"message"`
			Errors  []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	_ = resp.decode(&out)

	if !resp.ok() {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, apiError(name, CauseInvalidToken, resp.StatusCode, "Access token expired or invalid")
		case http.StatusForbidden:
			for _, e := range out.Error.Errors {
				if strings.Contains(e.Reason, "quota") || e.Reason == "rateLimitExceeded" {
					return nil, apiError(name, CauseRateLimited, resp.StatusCode, "Upload quota exceeded")
				}
			}
			return nil, apiError(name, CausePermission, resp.StatusCode, "Insufficient permissions for this channel")
		}
		msg := out.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apiError(name, CauseRejected, resp.StatusCode, msg)
	}

	if out.ID == "" {
		return nil, apiError(name, CauseRejected, resp.StatusCode, "response has no video id")
	}

	return &Receipt{
		PostID: out.ID,
		URL:    "https://youtube.com/shorts/" + out.ID,
	}, nil
}

// multipartRelated builds the metadata and media body of a multipart upload
func multipartRelated(meta any, media io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(part).Encode(meta); err != nil {
		return nil, "", fmt.Errorf("failed to encode video metadata: %w", err)
	}

	part, err = w.CreatePart(textproto.MIMEHeader{"Content-Type": {"video/mp4"}})
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, media); err != nil {
		return nil, "", fmt.Errorf("failed to read video: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, "multipart/related; boundary=" + w.Boundary(), nil
}
