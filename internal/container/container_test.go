package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalogclean/adapters/db/postgres/migrations"
	"catalogclean/app"
	"catalogclean/domain/run"
	"catalogclean/domain/table"
	"catalogclean/internal/config"
	apperrors "catalogclean/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"
)

const catalogCSV = `show_id,type,title,date_added,release_year,duration
s1,Movie,Dick Johnson Is Dead,"September 25, 2021",2020,90 min
s2,TV Show,Blood & Water,,2021,2 Seasons
s1,Movie,Dick Johnson Is Dead,"September 25, 2021",2020,90 min
s3,TV Show,Ganglands,"September 24, 2021",2021,1 Season
s4,Movie,Sankofa,"September 24, 2021",1993,125 min
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "netflix_titles.csv")
	require.NoError(t, os.WriteFile(input, []byte(catalogCSV), 0o644))

	cfg := config.Default()
	cfg.Paths.InputFile = input
	cfg.Paths.OutputFile = filepath.Join(dir, "out", "cleaned_netflix_data.xlsx")
	cfg.LogLevel = "ERROR"
	return cfg
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.LogLevel = "LOUD"
	_, err = New(cfg)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigInvalid))

	c, err := New(config.Default())
	require.NoError(t, err)
	assert.NotNil(t, c.Pipeline)
	assert.Nil(t, c.RunRepo)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestExportConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Export.SampleRows = 10
	cfg.Export.DateColumnWidth = 14

	export := ExportConfig(cfg)
	assert.Equal(t, "Netflix Data", export.SheetName)
	assert.Equal(t, "Netflix Sample", export.SampleSheetName)
	assert.Equal(t, 10, export.SampleRows)
	assert.Equal(t, "date_added", export.DateColumn)
	assert.Equal(t, 14.0, export.DateColumnWidth)
	assert.Equal(t, "yyyy-mm-dd", export.DateFormat)
}

func TestPipeline_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	c, err := New(cfg)
	require.NoError(t, err)

	summary, err := c.Pipeline.Run(context.Background(), app.PipelineRequest{
		InputPath:  cfg.Paths.InputFile,
		OutputPath: cfg.Paths.OutputFile,
	})
	require.NoError(t, err)
	require.Equal(t, run.StatusSucceeded, summary.Status, summary.ErrorMessage)

	assert.Equal(t, 5, summary.RowsLoaded)
	assert.Equal(t, 4, summary.RowsCleaned)
	assert.Equal(t, 1, summary.DuplicatesRemoved)

	f, err := excelize.OpenFile(cfg.Paths.OutputFile)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Netflix Data")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{
		"show_id", "type", "title", "date_added", "release_year",
		"year_added", "month_added", "duration_value", "duration_unit",
	}, rows[0])
	assert.Equal(t, "dick johnson is dead", rows[1][2])
	assert.Equal(t, "2021-09-25", rows[1][3])
	assert.Equal(t, " seasons", rows[2][8])
	assert.Equal(t, " min", rows[1][8])

	_, err = os.Stat(summary.SamplePath)
	assert.NoError(t, err)
}

func TestInitWithDatabase_RecordsRuns(t *testing.T) {
	ctx := context.Background()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = migrations.NewMigrator(db).Up(ctx)
	require.NoError(t, err)

	cfg := testConfig(t)
	c, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(nil))
	require.NoError(t, c.InitWithDatabase(db))
	defer c.Shutdown(ctx)

	summary, err := c.Pipeline.Run(ctx, app.PipelineRequest{
		InputPath:  cfg.Paths.InputFile,
		OutputPath: cfg.Paths.OutputFile,
	})
	require.NoError(t, err)

	stored, err := c.RunRepo.Get(ctx, summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.StatusSucceeded, stored.Status)
	assert.Equal(t, 4, stored.RowsCleaned)
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), config.DatabaseConfig{Driver: "postgres"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigInvalid))
}

func TestAttachDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.AttachDatabase(ctx))
	assert.NotNil(t, c.DB)
	assert.NotNil(t, c.RunRepo)

	require.NoError(t, c.Shutdown(ctx))
	assert.Error(t, c.DB.Ping())
}

func TestAttach_ClosesConnectionOnFailure(t *testing.T) {
	// the parent directory does not exist, so the first connection fails
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "missing", "ledger.db"))
	require.NoError(t, err)

	c, err := New(testConfig(t))
	require.NoError(t, err)

	require.Error(t, c.attach(db))
	assert.Nil(t, c.DB)
	assert.Nil(t, c.RunRepo)
	assert.ErrorContains(t, db.Ping(), "database is closed")
}

func TestPipeline_AllMissingColumnStaysEmpty(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Paths.InputFile, []byte("a,b,c\n1,,x\n2,,y\n3,,z\n"), 0o644))

	c, err := New(cfg)
	require.NoError(t, err)

	loaded, err := c.Loader.Load(cfg.Paths.InputFile)
	require.NoError(t, err)
	col, ok := loaded.Column("b")
	require.True(t, ok)
	assert.Equal(t, table.ColumnFloat, col.Type)

	cleaned, _, err := c.Cleaner.Clean(loaded)
	require.NoError(t, err)
	values, err := cleaned.Values("b")
	require.NoError(t, err)
	for _, v := range values {
		assert.True(t, v.IsMissing())
	}

	summary, err := c.Pipeline.Run(context.Background(), app.PipelineRequest{
		InputPath:  cfg.Paths.InputFile,
		OutputPath: cfg.Paths.OutputFile,
	})
	require.NoError(t, err)
	require.Equal(t, run.StatusSucceeded, summary.Status, summary.ErrorMessage)

	f, err := excelize.OpenFile(cfg.Paths.OutputFile)
	require.NoError(t, err)
	defer f.Close()
	for r := 2; r <= 4; r++ {
		v, err := f.GetCellValue("Netflix Data", fmt.Sprintf("B%d", r))
		require.NoError(t, err)
		assert.Empty(t, v)
	}
}

func TestPipeline_WorkbookDateCells(t *testing.T) {
	cfg := testConfig(t)
	input := filepath.Join(t.TempDir(), "titles.xlsx")

	in := excelize.NewFile()
	sheet := in.GetSheetName(0)
	require.NoError(t, in.SetSheetRow(sheet, "A1", &[]interface{}{"title", "date_added"}))
	require.NoError(t, in.SetSheetRow(sheet, "A2", &[]interface{}{"Kota Factory", time.Date(2021, 9, 25, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, in.SetSheetRow(sheet, "A3", &[]interface{}{"Sankofa", time.Date(2021, 9, 24, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, in.SaveAs(input))
	require.NoError(t, in.Close())

	c, err := New(cfg)
	require.NoError(t, err)
	summary, err := c.Pipeline.Run(context.Background(), app.PipelineRequest{
		InputPath:  input,
		OutputPath: cfg.Paths.OutputFile,
	})
	require.NoError(t, err)
	require.Equal(t, run.StatusSucceeded, summary.Status, summary.ErrorMessage)

	out, err := excelize.OpenFile(cfg.Paths.OutputFile)
	require.NoError(t, err)
	defer out.Close()

	rows, err := out.GetRows("Netflix Data")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "date_added", "year_added", "month_added"}, rows[0])
	assert.Equal(t, []string{"kota factory", "2021-09-25", "2021", "9"}, rows[1])
	assert.Equal(t, "2021-09-24", rows[2][1])
}
