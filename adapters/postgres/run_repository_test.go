package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalogclean/adapters/db/postgres/migrations"
	"catalogclean/domain/core"
	"catalogclean/domain/run"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepository(t *testing.T) *RunRepository {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = migrations.NewMigrator(db).Up(context.Background())
	require.NoError(t, err)
	return NewRunRepository(db)
}

func finishedSummary(input string, started time.Time) *run.Summary {
	s := run.NewSummary(input, "out/cleaned.xlsx")
	s.StartedAt = started
	s.RowsLoaded = 5
	s.ColumnsLoaded = 4
	s.RowsCleaned = 4
	s.ColumnsCleaned = 7
	s.ApplyClean(&run.CleanStats{DuplicatesRemoved: 1, ValuesImputed: 2, ValuesClipped: 1})
	s.Complete(run.ExportResult{FullPath: "out/cleaned.xlsx", SamplePath: "out/cleaned_sample.xlsx"})
	s.CompletedAt = started.Add(2 * time.Second)
	return s
}

func TestRunRepository_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	summary := finishedSummary("titles.csv", started)
	require.NoError(t, repo.Record(ctx, summary))

	got, err := repo.Get(ctx, summary.RunID)
	require.NoError(t, err)

	assert.Equal(t, summary.RunID, got.RunID)
	assert.Equal(t, "titles.csv", got.InputPath)
	assert.Equal(t, "out/cleaned_sample.xlsx", got.SamplePath)
	assert.Equal(t, 5, got.RowsLoaded)
	assert.Equal(t, 7, got.ColumnsCleaned)
	assert.Equal(t, 1, got.DuplicatesRemoved)
	assert.Equal(t, 2, got.ValuesImputed)
	assert.Equal(t, run.StatusSucceeded, got.Status)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 2*time.Second, got.Duration())
}

func TestRunRepository_RecordReplacesSameRun(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	summary := finishedSummary("titles.csv", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Record(ctx, summary))

	summary.Complete(run.ExportResult{SampleErr: errors.New("disk full")})
	require.NoError(t, repo.Record(ctx, summary))

	got, err := repo.Get(ctx, summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.StatusExportFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "disk full")

	runs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, input := range []string{"a.csv", "b.csv", "c.csv"} {
		require.NoError(t, repo.Record(ctx, finishedSummary(input, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.csv", runs[0].InputPath)
	assert.Equal(t, "b.csv", runs[1].InputPath)

	runs, err = repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRunRepository_GetUnknown(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), core.NewRunID())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRunNotFound))
	assert.True(t, core.IsNotFoundError(err))
}

func TestRunRepository_RecordNil(t *testing.T) {
	repo := newTestRepository(t)
	assert.Error(t, repo.Record(context.Background(), nil))
}
