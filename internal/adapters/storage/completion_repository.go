package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/ports"
)

// timeLayout is fixed-width UTC so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// completionRepository implements ports.CompletionRepository using SQLite.
type completionRepository struct {
	db *sql.DB
}

// newCompletionRepository creates a new completion repository.
func newCompletionRepository(db *sql.DB) ports.CompletionRepository {
	return &completionRepository{db: db}
}

// Save persists a completion. Duplicate IDs are ignored.
func (r *completionRepository) Save(ctx context.Context, rec *domain.CompletionRecord) error {
	query := `
		INSERT INTO completions (id, preset_id, duration_seconds, occurred_at, git_branch, git_commit)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.PresetID,
		rec.DurationSeconds,
		formatTime(rec.OccurredAt),
		nullString(rec.GitBranch),
		nullString(rec.GitCommit),
	)
	if isUniqueConstraintError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save completion: %w", err)
	}

	return nil
}

// FindRecent returns up to limit completions, newest first.
func (r *completionRepository) FindRecent(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, preset_id, duration_seconds, occurred_at, git_branch, git_commit
		FROM completions
		ORDER BY occurred_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCompletions(rows)
}

// FindSince returns completions at or after since, oldest first.
func (r *completionRepository) FindSince(ctx context.Context, since time.Time) ([]*domain.CompletionRecord, error) {
	query := `
		SELECT id, preset_id, duration_seconds, occurred_at, git_branch, git_commit
		FROM completions
		WHERE occurred_at >= ?
		ORDER BY occurred_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCompletions(rows)
}

// Count returns the number of stored completions.
func (r *completionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return n, nil
}

// DeleteAll removes every completion.
func (r *completionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM completions`); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	return nil
}

// scanCompletions scans multiple completion rows.
func scanCompletions(rows *sql.Rows) ([]*domain.CompletionRecord, error) {
	var records []*domain.CompletionRecord

	for rows.Next() {
		var rec domain.CompletionRecord
		var occurredAt string
		var branch, commit sql.NullString

		if err := rows.Scan(&rec.ID, &rec.PresetID, &rec.DurationSeconds, &occurredAt, &branch, &commit); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}

		t, err := parseTime(occurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse occurred_at %q: %w", occurredAt, err)
		}
		rec.OccurredAt = t
		rec.GitBranch = branch.String
		rec.GitCommit = commit.String
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completions: %w", err)
	}

	return records, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
