package platform

import (
	"context"
	"net/http"

	"github.com/cuongbtq/jobreel/internal/config"
)

// WhatsAppClient sends text messages through the Cloud API. It is off unless enabled in config.
type WhatsAppClient struct {
	creds   config.WhatsAppCredentials
	baseURL string
	enabled bool
	client  *http.Client
}

func NewWhatsAppClient(creds config.WhatsAppCredentials, baseURL string, enabled bool, client *http.Client) *WhatsAppClient {
	return &WhatsAppClient{creds: creds, baseURL: baseURL, enabled: enabled, client: client}
}

func (c *WhatsAppClient) Name() string { return WhatsApp }

var whatsAppErrors = map[int]string{
	131026: "Message undeliverable, recipient may have blocked the business number",
	131047: "Re-engagement message, recipient has not messaged you in 24+ hours",
	131051: "Unsupported message type for recipient",
}

func (c *WhatsAppClient) Publish(ctx context.Context, p Publication) (*Receipt, error) {
	name := DisplayName(WhatsApp)
	if !c.enabled {
		return nil, &Error{Platform: name, Cause: CauseNotConfigured, Message: "WhatsApp integration is disabled", Err: ErrDisabled}
	}
	if c.creds.AccessToken == "" || c.creds.PhoneNumberID == "" {
		return nil, notConfigured(name, "WhatsApp API credentials not configured")
	}
	if c.creds.RecipientNumber == "" {
		return nil, notConfigured(name, "WhatsApp recipient number not configured")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.creds.AccessToken)

	resp, err := postJSON(ctx, c.client, joinURL(c.baseURL, graphVersion, c.creds.PhoneNumberID, "messages"), map[string]any{
		"messaging_product": "whatsapp",
		"to":                c.creds.RecipientNumber,
		"type":              "text",
		"text":              map[string]string{"body": p.Text},
	}, header)
	if err != nil {
		return nil, transportError(name, err)
	}

	if !resp.ok() {
		ge := parseGraphError(resp)
		switch resp.StatusCode {
		case http.StatusBadRequest:
			if msg, ok := whatsAppErrors[ge.Error.Code]; ok {
				return nil, apiError(name, CauseRejected, resp.StatusCode, msg)
			}
		case http.StatusUnauthorized:
			return nil, apiError(name, CauseInvalidToken, resp.StatusCode, "Invalid access token or expired token")
		case http.StatusForbidden:
			return nil, apiError(name, CausePermission, resp.StatusCode, "Insufficient permissions or phone number not verified")
		}
		return nil, apiError(name, CauseRejected, resp.StatusCode, ge.Error.Message)
	}

	var out struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := resp.decode(&out); err != nil || len(out.Messages) == 0 {
		return nil, apiError(name, CauseRejected, resp.StatusCode, "response has no message id")
	}

	return &Receipt{PostID: out.Messages[0].ID, ChatID: c.creds.RecipientNumber}, nil
}
