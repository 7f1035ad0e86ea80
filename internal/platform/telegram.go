package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cuongbtq/jobreel/internal/config"
)

type TelegramClient struct {
	creds   config.TelegramCredentials
	baseURL string
	client  *http.Client
}

func NewTelegramClient(creds config.TelegramCredentials, baseURL string, client *http.Client) *TelegramClient {
	return &TelegramClient{creds: creds, baseURL: baseURL, client: client}
}

func (c *TelegramClient) Name() string { return Telegram }

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Publish sends the video by URL when one is public, otherwise uploads the local file
func (c *TelegramClient) Publish(ctx context.Context, p Publication) (*Receipt, error) {
	name := DisplayName(Telegram)
	if c.creds.BotToken == "" || c.creds.ChatID == "" {
		return nil, notConfigured(name, "Telegram API credentials not configured")
	}

	body, contentType, err := c.buildForm(p)
	if err != nil {
		return nil, apiError(name, CauseRejected, 0, err.Error())
	}

	url := joinURL(c.baseURL, "bot"+c.creds.BotToken, "sendVideo")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, transportError(name, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := do(c.client, req)
	if err != nil {
		return nil, transportError(name, err)
	}

	var out telegramResponse
	_ = resp.decode(&out)

	if !resp.ok() || !out.OK {
		status := resp.StatusCode
		if out.ErrorCode != 0 {
			status = out.ErrorCode
		}
		switch status {
		case http.StatusUnauthorized:
			return nil, apiError(name, CauseInvalidToken, status, "Bot token invalid or revoked")
		case http.StatusForbidden:
			return nil, apiError(name, CausePermission, status, "Bot is not allowed to post in this chat")
		case http.StatusTooManyRequests:
			return nil, apiError(name, CauseRateLimited, status, "Too many requests")
		}
		msg := out.Description
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, apiError(name, CauseRejected, status, msg)
	}

	return &Receipt{
		PostID: strconv.FormatInt(out.Result.MessageID, 10),
		ChatID: c.creds.ChatID,
	}, nil
}

func (c *TelegramClient) buildForm(p Publication) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"chat_id":            c.creds.ChatID,
		"caption":            p.Text,
		"supports_streaming": "true",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if p.MediaURL != "" {
		if err := w.WriteField("video", p.MediaURL); err != nil {
			return nil, "", err
		}
	} else {
		if err := attachFile(w, "video", p.MediaPath); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open video: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read video: %w", err)
	}
	return nil
}
