package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultTwitterURL     = "https://api.twitter.com"
	defaultLinkedInURL    = "https://api.linkedin.com"
	defaultGraphURL       = "https://graph.facebook.com"
	defaultYouTubeURL     = "https://www.googleapis.com"
	defaultGoogleTokenURL = "https://oauth2.googleapis.com/token"
	defaultTelegramURL    = "https://api.telegram.org"

	graphVersion = "v18.0"

	maxResponseBytes = 1 << 20
)

type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *response) decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

func do(client *http.Client, req *http.Request) (*response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any, header http.Header) (*response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	return do(client, req)
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// graphError is the error envelope shared by the Facebook, Instagram and WhatsApp APIs
type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func parseGraphError(r *response) graphError {
	var ge graphError
	_ = r.decode(&ge)
	if ge.Error.Message == "" {
		ge.Error.Message = fmt.Sprintf("request failed with status %d", r.StatusCode)
	}
	return ge
}

// graphRateLimitCodes are the Graph API throttling codes
var graphRateLimitCodes = map[int]bool{4: true, 17: true, 32: true, 613: true}

// translateGraphError maps a Graph API failure of a page or media call
func translateGraphError(platform string, r *response) *Error {
	ge := parseGraphError(r)
	code := ge.Error.Code

	switch {
	case graphRateLimitCodes[code]:
		return apiError(platform, CauseRateLimited, r.StatusCode, "Rate limit reached, try again later")
	case r.StatusCode == http.StatusBadRequest && code == 190:
		return apiError(platform, CauseInvalidToken, r.StatusCode, "Access token expired or invalid")
	case r.StatusCode == http.StatusBadRequest && code == 200:
		return apiError(platform, CausePermission, r.StatusCode, "Insufficient permissions for this action")
	case r.StatusCode == http.StatusBadRequest && code == 368:
		return apiError(platform, CausePolicy, r.StatusCode, "Content violates platform policies")
	case r.StatusCode == http.StatusForbidden:
		return apiError(platform, CausePermission, r.StatusCode, "Account restricted or insufficient permissions")
	}
	return apiError(platform, CauseRejected, r.StatusCode, ge.Error.Message)
}
