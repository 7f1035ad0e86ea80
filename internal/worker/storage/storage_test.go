package storage

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	apidomain "github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/events"
	"github.com/cuongbtq/jobreel/internal/worker/domain"
	"github.com/cuongbtq/jobreel/shared/logger"
	"github.com/cuongbtq/jobreel/shared/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Needs a running PostgreSQL, skipped unless TEST_DB_HOST is set.
func testStorage(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("TEST_DB_PORT"))
	if port == 0 {
		port = 5432
	}

	pg, err := postgresql.NewClient(&postgresql.Config{
		Host:         host,
		Port:         port,
		User:         os.Getenv("TEST_DB_USER"),
		Password:     os.Getenv("TEST_DB_PASSWORD"),
		Database:     os.Getenv("TEST_DB_NAME"),
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 1,
	}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Close() })

	s := NewStorage(pg, logger.NewNop())
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestStorage_RecordEvent(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	ev := events.NewPostingEvent(events.KindReelPosted, "draft_1_abcdefg", map[string]apidomain.PlatformResult{
		"telegram":  {Success: true, Platform: "telegram", PostID: "77"},
		"instagram": {Success: false, Platform: "instagram", Error: "Instagram: media URL required"},
	}, time.Now())

	n, err := s.RecordEvent(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.RecordEvent(ctx, ev)
	assert.ErrorIs(t, err, domain.ErrDuplicateEvent)

	rows, err := s.ResultsForEvent(ctx, ev.EventID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "instagram", rows[0].Platform)
	assert.Equal(t, domain.ResultStatusFailed, rows[0].Status)
	assert.Equal(t, "Instagram: media URL required", rows[0].ErrorMessage)
	assert.Equal(t, domain.ResultStatusSuccess, rows[1].Status)
	assert.Equal(t, "draft_1_abcdefg", rows[1].DraftID)
}

func TestStorage_RecordMessageEvent(t *testing.T) {
	s := testStorage(t)

	ev := events.NewPostingEvent(events.KindMessagePosted, "", map[string]apidomain.PlatformResult{
		"twitter": {Success: true, Platform: "twitter", PostID: "1"},
	}, time.Now())

	_, err := s.RecordEvent(context.Background(), ev)
	require.NoError(t, err)

	rows, err := s.ResultsForEvent(context.Background(), ev.EventID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].DraftID)
}
