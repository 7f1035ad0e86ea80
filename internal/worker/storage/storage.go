package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobreel/internal/events"
	"github.com/cuongbtq/jobreel/internal/worker/domain"
	"github.com/cuongbtq/jobreel/shared/postgresql"
)

const createResultsTable = `
	CREATE TABLE IF NOT EXISTS posting_results (
		event_id      UUID        NOT NULL,
		kind          TEXT        NOT NULL,
		draft_id      TEXT,
		platform      TEXT        NOT NULL,
		status        TEXT        NOT NULL,
		post_id       TEXT        NOT NULL DEFAULT '',
		url           TEXT        NOT NULL DEFAULT '',
		error_message TEXT        NOT NULL DEFAULT '',
		posted_at     TIMESTAMPTZ NOT NULL,
		recorded_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (event_id, platform)
	);
	CREATE INDEX IF NOT EXISTS idx_posting_results_draft_id ON posting_results (draft_id);
`

// duplicate deliveries insert nothing
const insertResult = `
	INSERT INTO posting_results (event_id, kind, draft_id, platform, status, post_id, url, error_message, posted_at)
	VALUES (:event_id, :kind, NULLIF(:draft_id, ''), :platform, :status, :post_id, :url, :error_message, :posted_at)
	ON CONFLICT (event_id, platform) DO NOTHING
`

// Storage handles all database operations for the worker
type Storage struct {
	pg     *postgresql.Client
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	return &Storage{
		pg:     pg,
		logger: logger,
	}
}

// EnsureSchema creates the posting_results table if it does not exist
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.GetDB().ExecContext(ctx, createResultsTable); err != nil {
		return fmt.Errorf("failed to create posting_results table: %w", err)
	}
	return nil
}

// RecordEvent stores one row per platform in a single transaction.
// Returns the number of new rows, or domain.ErrDuplicateEvent when the event was already recorded.
func (s *Storage) RecordEvent(ctx context.Context, ev *events.PostingEvent) (int, error) {
	rows := domain.RowsFromEvent(ev)

	tx, err := s.pg.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, row := range rows {
		res, err := tx.NamedExecContext(ctx, insertResult, row)
		if err != nil {
			return 0, fmt.Errorf("failed to insert result for %s: %w", row.Platform, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if inserted == 0 && len(rows) > 0 {
		s.logger.Warn("Posting event already recorded",
			slog.String("event_id", ev.EventID),
		)
		return 0, domain.ErrDuplicateEvent
	}

	s.logger.Info("Posting event recorded",
		slog.String("event_id", ev.EventID),
		slog.String("kind", string(ev.Kind)),
		slog.Int("rows", inserted),
	)

	return inserted, nil
}

// ResultsForEvent returns the stored rows of an event ordered by platform
func (s *Storage) ResultsForEvent(ctx context.Context, eventID string) ([]domain.ResultRow, error) {
	query := `
		SELECT event_id, kind, COALESCE(draft_id, '') AS draft_id, platform, status, post_id, url, error_message, posted_at
		FROM posting_results
		WHERE event_id = $1
		ORDER BY platform
	`

	var rows []domain.ResultRow
	if err := s.pg.GetDB().SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to get posting results: %w", err)
	}
	return rows, nil
}
