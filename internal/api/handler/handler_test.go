package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/api/storage"
	"github.com/cuongbtq/jobreel/internal/config"
	"github.com/cuongbtq/jobreel/internal/content"
	"github.com/cuongbtq/jobreel/internal/platform"
	"github.com/cuongbtq/jobreel/internal/reel"
	"github.com/cuongbtq/jobreel/internal/workflow"
	"github.com/cuongbtq/jobreel/shared/logger"
	"github.com/cuongbtq/jobreel/shared/postgresql"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobUpdate = `𝐉𝐎𝐁 𝐀𝐋𝐄𝐑𝐓 - SSC CGL 2026
🔹 Organization: Staff Selection Commission
🔹 Post Name: Assistant Section Officer
🔹 Vacancies: 17727
🔹 Last Date: 24 July 2026`

func init() {
	gin.SetMode(gin.TestMode)
}

type stubClient struct {
	name string
	err  error
}

func (s stubClient) Name() string { return s.name }

func (s stubClient) Publish(context.Context, platform.Publication) (*platform.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &platform.Receipt{PostID: s.name + "-42"}, nil
}

// failingStore fails every call, for the 500 paths
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) Create(context.Context, *domain.Draft) error { return errStoreDown }
func (failingStore) Put(context.Context, *domain.Draft) error { return errStoreDown }
func (failingStore) Get(context.Context, string) (*domain.Draft, error) { return nil, errStoreDown }
func (failingStore) Delete(context.Context, string) error { return errStoreDown }
func (failingStore) List(context.Context) ([]*domain.Draft, error) { return nil, errStoreDown }

type testEnv struct {
	engine    *gin.Engine
	uploadDir string
}

type envOptions struct {
	store      storage.DraftStore
	database   DatabaseHealth
	production bool
	maxUpload  int64
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	store := opts.store
	if store == nil {
		store = storage.NewMemoryStore(time.Now)
	}
	maxUpload := opts.maxUpload
	if maxUpload == 0 {
		maxUpload = 50 << 20
	}

	registry := platform.NewRegistry(
		stubClient{name: platform.Instagram},
		stubClient{name: platform.YouTube},
		stubClient{name: platform.Facebook},
		stubClient{name: platform.Telegram},
		stubClient{name: platform.Twitter},
		stubClient{name: platform.LinkedIn, err: errors.New("LinkedIn: Access token expired or invalid")},
		platform.NewWhatsAppClient(config.WhatsAppCredentials{}, "http://127.0.0.1:1", false, http.DefaultClient),
	)

	svc := workflow.NewService(&workflow.Dependencies{
		Logger:    logger.NewNop(),
		Store:     store,
		Generator: content.NewGenerator(nil, logger.NewNop()),
		Renderer:  reel.NewRenderer(reel.Config{OutputDir: t.TempDir()}, logger.NewNop()),
		Platforms: registry,
		Config: workflow.Config{
			DefaultPlatforms:   []string{"instagram", "youtube", "facebook", "telegram"},
			PlainPostPlatforms: []string{"twitter", "linkedin", "facebook", "whatsapp"},
			Retention:          168 * time.Hour,
		},
	})

	uploadDir := t.TempDir()
	deps := &Dependencies{
		Logger:         logger.NewNop(),
		Workflow:       svc,
		Uploads:        UploadConfig{Dir: uploadDir, MaxBytes: maxUpload},
		Database:       opts.database,
		PlainPlatforms: []string{"twitter", "linkedin", "facebook", "whatsapp"},
		Production:     opts.production,
		StartedAt:      time.Now().Add(-time.Minute),
	}

	reels := NewReelHandler(deps)
	posts := NewPostHandler(deps)

	r := gin.New()
	r.POST("/api/generate-reel-preview", reels.GeneratePreview)
	r.PUT("/api/edit-reel-draft/:draftId", reels.EditDraft)
	r.POST("/api/approve-and-post-reel/:draftId", reels.ApproveAndPost)
	r.GET("/api/reel-draft/:draftId", reels.GetDraft)
	r.GET("/api/reel-drafts", reels.ListDrafts)
	r.DELETE("/api/reel-draft/:draftId", reels.DeleteDraft)
	r.POST("/api/post", posts.PostMessage)
	r.GET("/api/health", posts.Health)
	r.GET("/api/test", posts.Test)

	return &testEnv{engine: r, uploadDir: uploadDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func (e *testEnv) createDraft(t *testing.T, platforms string) string {
	t.Helper()
	w, body := e.do(t, http.MethodPost, "/api/generate-reel-preview", map[string]any{
		"job_update": jobUpdate,
		"platforms":  platforms,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return body["draft_id"].(string)
}

func TestGeneratePreview_JSON(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w, body := env.do(t, http.MethodPost, "/api/generate-reel-preview", map[string]any{
		"job_update": jobUpdate,
		"platforms":  "instagram, telegram",
		"style":      "vibrant",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Reel preview generated successfully", body["message"])
	assert.Regexp(t, `^draft_\d+_`, body["draft_id"])

	preview := body["preview"].(map[string]any)
	assert.Equal(t, "vibrant", preview["style"])
	assert.Equal(t, false, preview["is_uploaded"])
	assert.Equal(t, float64(15), preview["duration"])
	c := preview["content"].(map[string]any)
	assert.Equal(t, "SSC CGL 2026", c["title"])
	assert.Equal(t, "Staff Selection Commission", c["job"].(map[string]any)["organization"])

	previews := body["platform_previews"].(map[string]any)
	assert.Len(t, previews, 2)
	assert.Contains(t, previews, "instagram")
	assert.Contains(t, previews, "telegram")
	assert.Len(t, body["suggestions"], 5)
}

func TestGeneratePreview_PlatformArray(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w, body := env.do(t, http.MethodPost, "/api/generate-reel-preview", map[string]any{
		"job_update": jobUpdate,
		"platforms":  []string{"youtube"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	previews := body["platform_previews"].(map[string]any)
	yt := previews["youtube"].(map[string]any)
	assert.Equal(t, "SSC CGL 2026 #Shorts", yt["title"])
	assert.Equal(t, "YouTube Shorts", yt["format"])
}

func TestGeneratePreview_Multipart(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("job_update", jobUpdate))
	require.NoError(t, mw.WriteField("platforms", "telegram,youtube"))
	require.NoError(t, mw.WriteField("style_settings", `{"font":"bold"}`))
	fw, err := mw.CreateFormFile("video", "clip.mp4")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a video"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-reel-preview", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, body := env.serve(t, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["preview"].(map[string]any)["is_uploaded"])
	tg := body["platform_previews"].(map[string]any)["telegram"].(map[string]any)
	assert.Equal(t, "0.00 MB", tg["file_size"])

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".mp4"))
}

func TestGeneratePreview_MultipartErrors(t *testing.T) {
	build := func(t *testing.T, fields map[string]string, file []byte) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range fields {
			require.NoError(t, mw.WriteField(k, v))
		}
		if file != nil {
			fw, err := mw.CreateFormFile("video", "clip.mp4")
			require.NoError(t, err)
			_, err = fw.Write(file)
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/generate-reel-preview", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	t.Run("oversized upload", func(t *testing.T) {
		env := newTestEnv(t, envOptions{maxUpload: 8})
		w, body := env.serve(t, build(t, map[string]string{"job_update": jobUpdate}, []byte("0123456789")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "Video exceeds")
	})

	t.Run("invalid style settings", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		w, body := env.serve(t, build(t, map[string]string{"job_update": jobUpdate, "style_settings": "{"}, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid style_settings JSON", body["error"])
	})

	t.Run("blank text removes the upload", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		w, body := env.serve(t, build(t, map[string]string{"job_update": "  "}, []byte("video")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Job update content is required", body["error"])

		entries, err := os.ReadDir(env.uploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGeneratePreview_BadRequests(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name  string
		body  any
		error string
	}{
		{name: "missing text", body: map[string]any{}, error: "Job update content is required"},
		{name: "malformed json", body: `{"job_update":`, error: "Invalid request body"},
		{name: "unknown platform", body: map[string]any{"job_update": "x", "platforms": "myspace"}, error: "Unsupported platform: myspace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/api/generate-reel-preview", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.error, body["error"])
		})
	}
}

func TestEditDraft(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	id := env.createDraft(t, "telegram")

	w, body := env.do(t, http.MethodPut, "/api/edit-reel-draft/"+id, map[string]any{
		"title":          "SSC CGL 2026 is open",
		"hashtags":       "#clerk #jobs",
		"custom_changes": []string{"new title"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Reel draft updated successfully", body["message"])

	updated := body["updated_preview"].(map[string]any)
	assert.Equal(t, "SSC CGL 2026 is open", updated["content"].(map[string]any)["title"])

	changes := body["changes"].(map[string]any)
	assert.Equal(t, []any{"title", "hashtags", "custom_changes"}, changes["applied"])
	assert.Equal(t, []any{"new title"}, changes["custom_changes"])

	w, body = env.do(t, http.MethodGet, "/api/reel-draft/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "modified", body["draft"].(map[string]any)["status"])
}

func TestEditDraft_NotFound(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w, body := env.do(t, http.MethodPut, "/api/edit-reel-draft/draft_1_missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Draft not found or expired", body["error"])
}

func TestApproveAndPost(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	id := env.createDraft(t, "instagram,telegram")

	w, body := env.do(t, http.MethodPost, "/api/approve-and-post-reel/"+id, map[string]any{"final_approval": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Job reel posted to 2/2 platforms successfully", body["message"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total_platforms"])
	assert.Equal(t, float64(2), summary["success_count"])
	assert.Equal(t, float64(0), summary["failed_count"])
	assert.Equal(t, "100.0%", summary["success_rate"])

	results := body["results"].(map[string]any)
	assert.Equal(t, "telegram-42", results["telegram"].(map[string]any)["post_id"])

	_, err := time.Parse(time.RFC3339, body["posted_at"].(string))
	assert.NoError(t, err)

	w, body = env.do(t, http.MethodGet, "/api/reel-draft/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Draft not found or expired", body["error"])

	w, body = env.do(t, http.MethodGet, "/api/reel-drafts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])
}

func TestApproveAndPost_Validation(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	id := env.createDraft(t, "telegram")

	tests := []struct {
		name  string
		body  any
		error string
	}{
		{name: "empty body", body: nil, error: "Final approval required to post reel"},
		{name: "approval false", body: map[string]any{"final_approval": false}, error: "Final approval required to post reel"},
		{
			name:  "past schedule",
			body:  map[string]any{"final_approval": true, "scheduled_time": time.Now().Add(-time.Hour).Format(time.RFC3339)},
			error: "Scheduled time must be in the future",
		},
		{
			name:  "unparseable schedule",
			body:  map[string]any{"final_approval": true, "scheduled_time": "tomorrow"},
			error: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/api/approve-and-post-reel/"+id, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.error, body["error"])
		})
	}

	w, body := env.do(t, http.MethodGet, "/api/reel-draft/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending_approval", body["draft"].(map[string]any)["status"])
}

func TestApproveAndPost_Schedule(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	id := env.createDraft(t, "telegram")
	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	w, body := env.do(t, http.MethodPost, "/api/approve-and-post-reel/"+id, map[string]any{
		"final_approval": true,
		"scheduled_time": at.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "scheduled", body["status"])
	assert.True(t, strings.HasPrefix(body["message"].(string), "Reel scheduled for posting at "))

	w, body = env.do(t, http.MethodPost, "/api/approve-and-post-reel/"+id, map[string]any{"final_approval": true})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestListAndDeleteDrafts(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	long := strings.Repeat("a", 120)
	w, _ := env.do(t, http.MethodPost, "/api/generate-reel-preview", map[string]any{"job_update": long})
	require.Equal(t, http.StatusOK, w.Code)
	id := env.createDraft(t, "telegram")

	w, body := env.do(t, http.MethodGet, "/api/reel-drafts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["total"])
	drafts := body["drafts"].([]any)
	var excerpts []string
	for _, d := range drafts {
		excerpts = append(excerpts, d.(map[string]any)["job_update"].(string))
	}
	assert.Contains(t, excerpts, strings.Repeat("a", 100)+"...")

	w, body = env.do(t, http.MethodDelete, "/api/reel-draft/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Draft deleted successfully", body["message"])

	w, body = env.do(t, http.MethodDelete, "/api/reel-draft/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Draft not found", body["error"])
}

func TestListDrafts_Pagination(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	for i := 0; i < 3; i++ {
		env.createDraft(t, "telegram")
	}

	w, body := env.do(t, http.MethodGet, "/api/reel-drafts?page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["total"])
	next, ok := body["next_cursor"].(string)
	require.True(t, ok)

	w, body = env.do(t, http.MethodGet, "/api/reel-drafts?page_size=2&cursor="+next, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])
	assert.NotContains(t, body, "next_cursor")

	w, body = env.do(t, http.MethodGet, "/api/reel-drafts?status=pending_approval", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["total"])
}

func TestListDrafts_BadQuery(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name  string
		query string
		error string
	}{
		{name: "bad cursor", query: "cursor=%25%25", error: "Invalid cursor"},
		{name: "bad page size", query: "page_size=many", error: "Invalid query parameters"},
		{name: "unknown status", query: "status=archived", error: "Unsupported status: archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodGet, "/api/reel-drafts?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.error, body["error"])
		})
	}
}

func TestInternalErrors(t *testing.T) {
	t.Run("details outside production", func(t *testing.T) {
		env := newTestEnv(t, envOptions{store: failingStore{}})
		w, body := env.do(t, http.MethodGet, "/api/reel-drafts", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to retrieve drafts", body["error"])
		assert.Contains(t, body["details"], "connection refused")
	})

	t.Run("no details in production", func(t *testing.T) {
		env := newTestEnv(t, envOptions{store: failingStore{}, production: true})
		w, body := env.do(t, http.MethodPost, "/api/generate-reel-preview", map[string]any{"job_update": jobUpdate})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to generate reel preview", body["error"])
		assert.NotContains(t, body, "details")
	})
}

func TestPostMessage(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w, body := env.do(t, http.MethodPost, "/api/post", map[string]any{"message": "We are hiring!"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Posted to 2/4 platforms successfully", body["message"])

	results := body["results"].(map[string]any)
	require.Len(t, results, 4)
	assert.Equal(t, false, results["whatsapp"].(map[string]any)["success"])
	assert.Equal(t, "LinkedIn: Access token expired or invalid", results["linkedin"].(map[string]any)["error"])
	assert.NotEmpty(t, body["posted_at"])
}

func TestPostMessage_Validation(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name    string
		message string
		error   string
	}{
		{name: "empty", message: "", error: "Message is required"},
		{name: "whitespace", message: "   ", error: "Message is required"},
		{name: "too long", message: strings.Repeat("m", 20001), error: "Message exceeds 20,000 character limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/api/post", map[string]any{"message": tt.message})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.error, body["error"])
		})
	}
}

func TestHealthAndTest(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w, body := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", body["status"])
	assert.GreaterOrEqual(t, body["uptime"].(float64), 60.0)
	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
	assert.NotContains(t, body, "database")

	w, body = env.do(t, http.MethodGet, "/api/test", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Social Media Poster API is running!", body["message"])
	assert.Equal(t, []any{"Twitter", "LinkedIn", "Facebook", "WhatsApp"}, body["platforms"])
	assert.Equal(t, float64(20000), body["max_characters"])
}

type stubDatabase struct {
	err error
}

func (d stubDatabase) HealthCheck(context.Context) error { return d.err }

func (d stubDatabase) Stats() postgresql.PoolStats {
	return postgresql.PoolStats{MaxOpenConnections: 25, OpenConnections: 2, Idle: 2, WaitDuration: "0s"}
}

func TestHealth_Database(t *testing.T) {
	t.Run("healthy pool", func(t *testing.T) {
		env := newTestEnv(t, envOptions{database: stubDatabase{}})

		w, body := env.do(t, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", body["status"])

		db := body["database"].(map[string]any)
		assert.Equal(t, "OK", db["status"])
		pool := db["pool"].(map[string]any)
		assert.Equal(t, float64(25), pool["max_open_connections"])
		assert.Equal(t, float64(2), pool["open_connections"])
	})

	t.Run("failed check", func(t *testing.T) {
		env := newTestEnv(t, envOptions{database: stubDatabase{err: errStoreDown}})

		w, body := env.do(t, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "DEGRADED", body["status"])

		db := body["database"].(map[string]any)
		assert.Equal(t, "DOWN", db["status"])
		assert.Contains(t, db["error"], "connection refused")
	})

	t.Run("error hidden in production", func(t *testing.T) {
		env := newTestEnv(t, envOptions{database: stubDatabase{err: errStoreDown}, production: true})

		w, body := env.do(t, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, body["database"], "error")
	})
}
