package config

import (
	"testing"

	"catalogclean/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INPUT_FILE", "OUTPUT_FILE", "SAMPLE_ROWS", "SHEET_NAME", "SAMPLE_SHEET_NAME",
		"DATE_COLUMN_WIDTH", "EXPORT_STRICT", "LOG_LEVEL", "DATABASE_DRIVER", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultInputFile, cfg.Paths.InputFile)
	assert.Equal(t, DefaultOutputFile, cfg.Paths.OutputFile)
	assert.Equal(t, "Netflix Data", cfg.Export.SheetName)
	assert.Equal(t, "Netflix Sample", cfg.Export.SampleSheetName)
	assert.Equal(t, 100, cfg.Export.SampleRows)
	assert.Equal(t, 12.0, cfg.Export.DateColumnWidth)
	assert.False(t, cfg.Export.Strict)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FILE", "data/titles.csv")
	t.Setenv("OUTPUT_FILE", "out/clean.xlsx")
	t.Setenv("SAMPLE_ROWS", "25")
	t.Setenv("DATE_COLUMN_WIDTH", "14.5")
	t.Setenv("EXPORT_STRICT", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/titles.csv", cfg.Paths.InputFile)
	assert.Equal(t, "out/clean.xlsx", cfg.Paths.OutputFile)
	assert.Equal(t, 25, cfg.Export.SampleRows)
	assert.Equal(t, 14.5, cfg.Export.DateColumnWidth)
	assert.True(t, cfg.Export.Strict)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SAMPLE_ROWS", "many"},
		{"SAMPLE_ROWS", "-1"},
		{"DATE_COLUMN_WIDTH", "wide"},
		{"DATE_COLUMN_WIDTH", "0"},
		{"EXPORT_STRICT", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestValidate_SheetNames(t *testing.T) {
	cfg := Default()
	cfg.Export.SheetName = "a sheet name that is far too long for excel"
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Paths.OutputFile = "  "
	assert.Error(t, Validate(cfg))

	assert.NoError(t, Validate(Default()))
}
