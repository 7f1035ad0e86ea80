package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/domain"
	"github.com/cuongbtq/jobreel/internal/api/model"
	"github.com/cuongbtq/jobreel/shared/postgresql"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const draftSchema = `
	CREATE TABLE IF NOT EXISTS reel_drafts (
		draft_id       TEXT PRIMARY KEY,
		raw_text       TEXT NOT NULL,
		platforms      JSONB NOT NULL,
		style          TEXT NOT NULL,
		style_settings JSONB,
		content        JSONB NOT NULL,
		video          JSONB NOT NULL,
		status         TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		last_modified  TIMESTAMPTZ NOT NULL,
		scheduled_time TIMESTAMPTZ,
		posted_at      TIMESTAMPTZ,
		expires_at     TIMESTAMPTZ,
		results        JSONB,
		custom_changes JSONB
	);
	CREATE INDEX IF NOT EXISTS idx_reel_drafts_created_at ON reel_drafts (created_at DESC, draft_id DESC);
	CREATE INDEX IF NOT EXISTS idx_reel_drafts_expires_at ON reel_drafts (expires_at) WHERE expires_at IS NOT NULL;
`

const draftColumns = `
	draft_id, raw_text, platforms, style, style_settings,
	content, video, status, created_at, last_modified,
	scheduled_time, posted_at, expires_at, results, custom_changes
`

const draftValues = `
	:draft_id, :raw_text, :platforms, :style, :style_settings,
	:content, :video, :status, :created_at, :last_modified,
	:scheduled_time, :posted_at, :expires_at, :results, :custom_changes
`

// PostgresStore keeps drafts in the reel_drafts table
type PostgresStore struct {
	pg  *postgresql.Client
	db  *sqlx.DB
	now Clock
}

func NewPostgresStore(pg *postgresql.Client, now Clock) *PostgresStore {
	if now == nil {
		now = time.Now
	}
	return &PostgresStore{
		pg:  pg,
		db:  pg.GetDB(),
		now: now,
	}
}

// HealthCheck reports whether the database answers queries
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	return s.pg.HealthCheck(ctx)
}

func (s *PostgresStore) Stats() postgresql.PoolStats {
	return s.pg.Stats()
}

// EnsureSchema creates the drafts table and its indexes
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, draftSchema); err != nil {
		return fmt.Errorf("failed to create reel_drafts schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, d *domain.Draft) error {
	row, err := model.NewDraftRow(d)
	if err != nil {
		return err
	}

	query := `INSERT INTO reel_drafts (` + draftColumns + `) VALUES (` + draftValues + `)`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDraftExists
		}
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, d *domain.Draft) error {
	row, err := model.NewDraftRow(d)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reel_drafts (` + draftColumns + `) VALUES (` + draftValues + `)
		ON CONFLICT (draft_id) DO UPDATE SET
			raw_text = EXCLUDED.raw_text,
			platforms = EXCLUDED.platforms,
			style = EXCLUDED.style,
			style_settings = EXCLUDED.style_settings,
			content = EXCLUDED.content,
			video = EXCLUDED.video,
			status = EXCLUDED.status,
			last_modified = EXCLUDED.last_modified,
			scheduled_time = EXCLUDED.scheduled_time,
			posted_at = EXCLUDED.posted_at,
			expires_at = EXCLUDED.expires_at,
			results = EXCLUDED.results,
			custom_changes = EXCLUDED.custom_changes
	`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Draft, error) {
	var row model.DraftRow
	query := `
		SELECT ` + draftColumns + `
		FROM reel_drafts
		WHERE draft_id = $1 AND (expires_at IS NULL OR expires_at > $2)
	`

	err := s.db.GetContext(ctx, &row, query, id, s.now())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return row.ToDomain()
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reel_drafts WHERE draft_id = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		id, s.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*domain.Draft, error) {
	query := `
		SELECT ` + draftColumns + `
		FROM reel_drafts
		WHERE expires_at IS NULL OR expires_at > $1
		ORDER BY created_at DESC, draft_id DESC
	`

	var rows []model.DraftRow
	if err := s.db.SelectContext(ctx, &rows, query, s.now()); err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	drafts := make([]*domain.Draft, 0, len(rows))
	for i := range rows {
		d, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (s *PostgresStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reel_drafts WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep drafts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to sweep drafts: %w", err)
	}
	return int(n), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}
