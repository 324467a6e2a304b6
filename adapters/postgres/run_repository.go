package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"catalogclean/domain/core"
	"catalogclean/domain/run"
	"catalogclean/internal/errors"
	"catalogclean/ports"

	"github.com/jmoiron/sqlx"
)

// DefaultListLimit is used when ListRecent is called without a positive limit
const DefaultListLimit = 20

const runColumns = `run_id, input_path, output_path, sample_path, rows_loaded, columns_loaded,
	rows_cleaned, columns_cleaned, duplicates_removed, values_imputed, values_clipped,
	status, error_message, started_at, completed_at`

// RunRepository stores run summaries in the cleaning_runs table
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a run ledger backed by db
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Record inserts a summary, replacing an earlier record of the same run
func (r *RunRepository) Record(ctx context.Context, summary *run.Summary) error {
	if summary == nil {
		return errors.InvalidInput("summary cannot be nil")
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO cleaning_runs (`+runColumns+`)
		VALUES (:run_id, :input_path, :output_path, :sample_path, :rows_loaded, :columns_loaded,
			:rows_cleaned, :columns_cleaned, :duplicates_removed, :values_imputed, :values_clipped,
			:status, :error_message, :started_at, :completed_at)
		ON CONFLICT (run_id) DO UPDATE SET
			sample_path = excluded.sample_path,
			rows_cleaned = excluded.rows_cleaned,
			columns_cleaned = excluded.columns_cleaned,
			duplicates_removed = excluded.duplicates_removed,
			values_imputed = excluded.values_imputed,
			values_clipped = excluded.values_clipped,
			status = excluded.status,
			error_message = excluded.error_message,
			completed_at = excluded.completed_at
	`, summary)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to record run %s", summary.RunID), err)
	}
	return nil
}

// Get retrieves one run by ID
func (r *RunRepository) Get(ctx context.Context, id core.RunID) (*run.Summary, error) {
	var summary run.Summary
	err := r.db.GetContext(ctx, &summary, r.db.Rebind(`
		SELECT `+runColumns+`
		FROM cleaning_runs
		WHERE run_id = ?
	`), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
		}
		return nil, errors.DatabaseError(fmt.Sprintf("failed to load run %s", id), err)
	}
	return &summary, nil
}

// ListRecent returns the most recently started runs first
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]*run.Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var summaries []*run.Summary
	err := r.db.SelectContext(ctx, &summaries, r.db.Rebind(`
		SELECT `+runColumns+`
		FROM cleaning_runs
		ORDER BY started_at DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}
	return summaries, nil
}

var _ ports.RunRepository = (*RunRepository)(nil)
