package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cuongbtq/jobreel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func tempVideo(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "reel.mp4")
	require.NoError(t, os.WriteFile(p, []byte("fake-mp4"), 0o644))
	return p
}

func TestTwitterClient_Publish(t *testing.T) {
	creds := config.TwitterCredentials{APIKey: "key", APISecret: "key-secret", AccessToken: "tw-token", AccessTokenSecret: "tw-secret"}

	t.Run("success", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2/tweets", r.URL.Path)

			auth := r.Header.Get("Authorization")
			assert.True(t, strings.HasPrefix(auth, "OAuth "), auth)
			assert.Contains(t, auth, `oauth_consumer_key="key"`)
			assert.Contains(t, auth, `oauth_token="tw-token"`)
			assert.Contains(t, auth, `oauth_signature_method="HMAC-SHA1"`)
			assert.Contains(t, auth, "oauth_signature=")
			assert.NotContains(t, auth, "secret")

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "hello world", body["text"])

			writeJSON(w, http.StatusCreated, `{"data":{"id":"1789","text":"hello world"}}`)
		})

		got, err := NewTwitterClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{Text: "hello world"})
		require.NoError(t, err)
		assert.Equal(t, "1789", got.PostID)
		assert.Equal(t, "https://twitter.com/user/status/1789", got.URL)
	})

	tests := []struct {
		status int
		cause  Cause
	}{
		{http.StatusUnauthorized, CauseInvalidToken},
		{http.StatusForbidden, CausePermission},
		{http.StatusTooManyRequests, CauseRateLimited},
		{http.StatusBadRequest, CauseRejected},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, `{"title":"err","detail":"bad tweet"}`)
			})

			_, err := NewTwitterClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{Text: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.cause, CauseOf(err))
			assert.Equal(t, fmt.Sprintf("Twitter: Request failed with code %d - bad tweet", tt.status), err.Error())
		})
	}

	t.Run("status only", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := NewTwitterClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{Text: "x"})
		assert.EqualError(t, err, "Twitter: Request failed with code 403")
	})

	t.Run("every key is required", func(t *testing.T) {
		partial := []config.TwitterCredentials{
			{APIKey: "key", AccessToken: "tw-token"},
			{APIKey: "key", APISecret: "s", AccessToken: "tw-token"},
			{APISecret: "s", AccessToken: "tw-token", AccessTokenSecret: "ts"},
		}
		for _, c := range partial {
			_, err := NewTwitterClient(c, "http://127.0.0.1:1", http.DefaultClient).Publish(context.Background(), Publication{Text: "x"})
			assert.ErrorIs(t, err, ErrNotConfigured)
			assert.EqualError(t, err, "Twitter: Twitter API credentials not configured")
		}
	})
}

func TestLinkedInClient_Publish(t *testing.T) {
	creds := config.LinkedInCredentials{AccessToken: "li-token", PersonID: "abc"}

	t.Run("id from header", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/posts", r.URL.Path)
			assert.Equal(t, "202308", r.Header.Get("LinkedIn-Version"))
			assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
			assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))

			var post linkedInPost
			require.NoError(t, json.NewDecoder(r.Body).Decode(&post))
			assert.Equal(t, "urn:li:person:abc", post.Author)
			assert.Equal(t, "MAIN_FEED", post.Distribution.FeedDistribution)

			w.Header().Set("X-RestLi-Id", "urn:li:share:1")
			w.WriteHeader(http.StatusCreated)
		})

		got, err := NewLinkedInClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{Text: "post"})
		require.NoError(t, err)
		assert.Equal(t, "urn:li:share:1", got.PostID)
		assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:1", got.URL)
	})

	tests := []struct {
		status int
		cause  Cause
	}{
		{http.StatusUnauthorized, CauseInvalidToken},
		{http.StatusForbidden, CausePermission},
		{http.StatusUnprocessableEntity, CausePolicy},
		{http.StatusTooManyRequests, CauseRateLimited},
		{http.StatusInternalServerError, CauseRejected},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, `{"message":"nope"}`)
			})

			_, err := NewLinkedInClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{Text: "x"})
			assert.Equal(t, tt.cause, CauseOf(err))
		})
	}
}

func TestFacebookClient_Publish(t *testing.T) {
	creds := config.FacebookCredentials{AccessToken: "fb-token", PageID: "page1"}

	t.Run("success", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v18.0/page1/feed", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "fb-token", body["access_token"])
			assert.Equal(t, "caption", body["message"])

			writeJSON(w, http.StatusOK, `{"id":"page1_99"}`)
		})

		got, err := NewFacebookClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{Text: "caption"})
		require.NoError(t, err)
		assert.Equal(t, "page1_99", got.PostID)
		assert.Equal(t, "https://facebook.com/page1_99", got.URL)
	})

	tests := []struct {
		name    string
		status  int
		body    string
		cause   Cause
		message string
	}{
		{"expired token", 400, `{"error":{"code":190,"message":"x"}}`, CauseInvalidToken, "Access token expired or invalid"},
		{"permission", 400, `{"error":{"code":200,"message":"x"}}`, CausePermission, "Insufficient permissions"},
		{"policy", 400, `{"error":{"code":368,"message":"x"}}`, CausePolicy, "violates"},
		{"restricted", 403, `{"error":{"code":10,"message":"x"}}`, CausePermission, "Account restricted"},
		{"throttled", 400, `{"error":{"code":613,"message":"x"}}`, CauseRateLimited, "Rate limit"},
		{"other", 500, `{"error":{"code":1,"message":"Unknown error"}}`, CauseRejected, "Unknown error"},
		{"no body", 502, ``, CauseRejected, "status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := NewFacebookClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{Text: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.cause, CauseOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestInstagramClient_Publish(t *testing.T) {
	creds := config.InstagramCredentials{AccessToken: "ig-token", AccountID: "acc"}

	t.Run("container then publish", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			switch r.URL.Path {
			case "/v18.0/acc/media":
				assert.Equal(t, "REELS", body["media_type"])
				assert.Equal(t, "https://cdn.example.com/reel.mp4", body["video_url"])
				writeJSON(w, http.StatusOK, `{"id":"container-1"}`)
			case "/v18.0/acc/media_publish":
				assert.Equal(t, "container-1", body["creation_id"])
				writeJSON(w, http.StatusOK, `{"id":"media-1"}`)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		got, err := NewInstagramClient(creds, srv.URL, 0, srv.Client()).Publish(context.Background(), Publication{
			Text:     "caption",
			MediaURL: "https://cdn.example.com/reel.mp4",
		})
		require.NoError(t, err)
		assert.Equal(t, "media-1", got.PostID)
		assert.Equal(t, "https://instagram.com/p/media-1", got.URL)
	})

	t.Run("missing credentials make no request", func(t *testing.T) {
		var hits atomic.Int32
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

		_, err := NewInstagramClient(config.InstagramCredentials{}, srv.URL, 0, srv.Client()).
			Publish(context.Background(), Publication{MediaURL: "https://cdn/x.mp4"})
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.EqualError(t, err, "Instagram: Instagram API credentials not configured")
		assert.Zero(t, hits.Load())
	})

	t.Run("requires public url", func(t *testing.T) {
		_, err := NewInstagramClient(creds, "http://unused", 0, http.DefaultClient).
			Publish(context.Background(), Publication{MediaPath: "/tmp/reel.mp4"})
		assert.Equal(t, CauseRejected, CauseOf(err))
	})

	t.Run("canceled while waiting", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"id":"container-1"}`)
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := NewInstagramClient(creds, srv.URL, time.Hour, srv.Client()).
			Publish(ctx, Publication{MediaURL: "https://cdn/x.mp4"})
		assert.Equal(t, CauseTransport, CauseOf(err))
	})
}

func TestYouTubeClient_Publish(t *testing.T) {
	creds := config.YouTubeCredentials{ClientID: "id", ClientSecret: "secret", RefreshToken: "refresh"}

	t.Run("refreshes token and uploads", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/token":
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
				writeJSON(w, http.StatusOK, `{"access_token":"yt-access","token_type":"Bearer","expires_in":3600}`)
			case "/upload/youtube/v3/videos":
				assert.Equal(t, "Bearer yt-access", r.Header.Get("Authorization"))
				assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))
				assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/related; boundary="))

				body, _ := io.ReadAll(r.Body)
				assert.Contains(t, string(body), "Clerk 2024 #Shorts")
				assert.Contains(t, string(body), `#Shorts #JobUpdate #Career`)
				assert.Contains(t, string(body), "fake-mp4")
				writeJSON(w, http.StatusOK, `{"id":"vid42"}`)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		c := NewYouTubeClient(creds, srv.URL, srv.URL+"/token", srv.Client())
		got, err := c.Publish(context.Background(), Publication{
			Title:       "Clerk 2024",
			Description: "raw text",
			MediaPath:   tempVideo(t),
		})
		require.NoError(t, err)
		assert.Equal(t, "vid42", got.PostID)
		assert.Equal(t, "https://youtube.com/shorts/vid42", got.URL)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/token" {
				writeJSON(w, http.StatusOK, `{"access_token":"a","token_type":"Bearer","expires_in":3600}`)
				return
			}
			writeJSON(w, http.StatusForbidden, `{"error":{"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`)
		})

		_, err := NewYouTubeClient(creds, srv.URL, srv.URL+"/token", srv.Client()).
			Publish(context.Background(), Publication{MediaPath: tempVideo(t)})
		assert.Equal(t, CauseRateLimited, CauseOf(err))
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant"}`)
		})

		_, err := NewYouTubeClient(creds, srv.URL, srv.URL+"/token", srv.Client()).
			Publish(context.Background(), Publication{MediaPath: tempVideo(t)})
		assert.Equal(t, CauseInvalidToken, CauseOf(err))
	})

	t.Run("missing video file", func(t *testing.T) {
		_, err := NewYouTubeClient(creds, "http://unused", "http://unused/token", http.DefaultClient).
			Publish(context.Background(), Publication{MediaPath: filepath.Join(t.TempDir(), "none.mp4")})
		assert.Equal(t, CauseRejected, CauseOf(err))
		assert.Contains(t, err.Error(), "cannot open video")
	})
}

func TestTelegramClient_Publish(t *testing.T) {
	creds := config.TelegramCredentials{BotToken: "123:abc", ChatID: "-100"}

	t.Run("video by url", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bot123:abc/sendVideo", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "-100", r.FormValue("chat_id"))
			assert.Equal(t, "caption", r.FormValue("caption"))
			assert.Equal(t, "true", r.FormValue("supports_streaming"))
			assert.Equal(t, "https://cdn/reel.mp4", r.FormValue("video"))

			writeJSON(w, http.StatusOK, `{"ok":true,"result":{"message_id":42}}`)
		})

		got, err := NewTelegramClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{
			Text:     "caption",
			MediaURL: "https://cdn/reel.mp4",
		})
		require.NoError(t, err)
		assert.Equal(t, "42", got.PostID)
		assert.Equal(t, "-100", got.ChatID)
	})

	t.Run("uploads local file", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			f, hdr, err := r.FormFile("video")
			require.NoError(t, err)
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "reel.mp4", hdr.Filename)
			assert.Equal(t, "fake-mp4", string(data))

			writeJSON(w, http.StatusOK, `{"ok":true,"result":{"message_id":7}}`)
		})

		got, err := NewTelegramClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{MediaPath: tempVideo(t)})
		require.NoError(t, err)
		assert.Equal(t, "7", got.PostID)
	})

	tests := []struct {
		status int
		body   string
		cause  Cause
	}{
		{401, `{"ok":false,"error_code":401,"description":"Unauthorized"}`, CauseInvalidToken},
		{403, `{"ok":false,"error_code":403,"description":"Forbidden: bot was kicked"}`, CausePermission},
		{429, `{"ok":false,"error_code":429,"description":"Too Many Requests"}`, CauseRateLimited},
		{400, `{"ok":false,"error_code":400,"description":"Bad Request: wrong file"}`, CauseRejected},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := NewTelegramClient(creds, srv.URL, srv.Client()).Publish(context.Background(), Publication{MediaURL: "https://cdn/x.mp4"})
			assert.Equal(t, tt.cause, CauseOf(err))
		})
	}
}

func TestWhatsAppClient_Publish(t *testing.T) {
	creds := config.WhatsAppCredentials{AccessToken: "wa", PhoneNumberID: "555", RecipientNumber: "+911234"}

	t.Run("disabled", func(t *testing.T) {
		_, err := NewWhatsAppClient(creds, "http://unused", false, http.DefaultClient).Publish(context.Background(), Publication{Text: "x"})
		assert.ErrorIs(t, err, ErrDisabled)
		assert.EqualError(t, err, "WhatsApp: WhatsApp integration is disabled")
	})

	t.Run("success", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v18.0/555/messages", r.URL.Path)
			assert.Equal(t, "Bearer wa", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"messages":[{"id":"wamid.1"}]}`)
		})

		got, err := NewWhatsAppClient(creds, srv.URL, true, srv.Client()).Publish(context.Background(), Publication{Text: "x"})
		require.NoError(t, err)
		assert.Equal(t, "wamid.1", got.PostID)
		assert.Equal(t, "+911234", got.ChatID)
	})

	t.Run("blocked recipient", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"error":{"code":131026,"message":"undeliverable"}}`)
		})

		_, err := NewWhatsAppClient(creds, srv.URL, true, srv.Client()).Publish(context.Background(), Publication{Text: "x"})
		assert.Contains(t, err.Error(), "recipient may have blocked")
	})
}
