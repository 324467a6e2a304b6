package config

import (
	"os"
	"strconv"
	"strings"

	"catalogclean/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Export   ExportConfig
	Database DatabaseConfig
	LogLevel string
}

// PathConfig holds the input and output file locations
type PathConfig struct {
	InputFile  string
	OutputFile string
}

// ExportConfig holds workbook export settings
type ExportConfig struct {
	SheetName       string
	SampleSheetName string
	SampleRows      int
	DateColumnWidth float64
	// Strict turns a failed workbook write into a failed run
	Strict bool
}

// DatabaseConfig holds the optional run ledger connection
type DatabaseConfig struct {
	Driver string
	URL    string
}

// Enabled reports whether runs should be recorded
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Defaults
const (
	DefaultInputFile       = "netflix_titles.csv"
	DefaultOutputFile      = "cleaned_netflix_data.xlsx"
	DefaultSheetName       = "Netflix Data"
	DefaultSampleSheetName = "Netflix Sample"
	DefaultSampleRows      = 100
	DefaultDateColumnWidth = 12
	DefaultDatabaseDriver  = "postgres"
)

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Paths: PathConfig{
			InputFile:  DefaultInputFile,
			OutputFile: DefaultOutputFile,
		},
		Export: ExportConfig{
			SheetName:       DefaultSheetName,
			SampleSheetName: DefaultSampleSheetName,
			SampleRows:      DefaultSampleRows,
			DateColumnWidth: DefaultDateColumnWidth,
		},
		Database: DatabaseConfig{
			Driver: DefaultDatabaseDriver,
		},
		LogLevel: "INFO",
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := Default()

	config.Paths = loadPathConfig()

	exportConfig, err := loadExportConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load export configuration")
	}
	config.Export = *exportConfig

	config.Database = loadDatabaseConfig()
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadPathConfig() PathConfig {
	return PathConfig{
		InputFile:  getEnvOrDefault("INPUT_FILE", DefaultInputFile),
		OutputFile: getEnvOrDefault("OUTPUT_FILE", DefaultOutputFile),
	}
}

func loadExportConfig() (*ExportConfig, error) {
	sampleRows, err := getEnvInt("SAMPLE_ROWS", DefaultSampleRows)
	if err != nil {
		return nil, err
	}
	width, err := getEnvFloat("DATE_COLUMN_WIDTH", DefaultDateColumnWidth)
	if err != nil {
		return nil, err
	}
	strict, err := getEnvBool("EXPORT_STRICT", false)
	if err != nil {
		return nil, err
	}

	return &ExportConfig{
		SheetName:       getEnvOrDefault("SHEET_NAME", DefaultSheetName),
		SampleSheetName: getEnvOrDefault("SAMPLE_SHEET_NAME", DefaultSampleSheetName),
		SampleRows:      sampleRows,
		DateColumnWidth: width,
		Strict:          strict,
	}, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver: getEnvOrDefault("DATABASE_DRIVER", DefaultDatabaseDriver),
		URL:    os.Getenv("DATABASE_URL"),
	}
}

// Validate checks the fields that have no safe fallback
func Validate(config *Config) error {
	if strings.TrimSpace(config.Paths.InputFile) == "" {
		return errors.ConfigInvalid("input file is required")
	}
	if strings.TrimSpace(config.Paths.OutputFile) == "" {
		return errors.ConfigInvalid("output file is required")
	}
	if config.Export.SampleRows < 0 {
		return errors.ConfigInvalid("SAMPLE_ROWS must not be negative")
	}
	if config.Export.DateColumnWidth <= 0 || config.Export.DateColumnWidth > 255 {
		return errors.ConfigInvalid("DATE_COLUMN_WIDTH must be in (0, 255]")
	}
	if config.Export.SheetName == "" || config.Export.SampleSheetName == "" {
		return errors.ConfigInvalid("sheet names must not be empty")
	}
	if len(config.Export.SheetName) > 31 || len(config.Export.SampleSheetName) > 31 {
		return errors.ConfigInvalid("sheet names are limited to 31 characters")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + strconv.Quote(value))
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number, got " + strconv.Quote(value))
	}
	return floatValue, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, errors.ConfigInvalid(key + " must be a boolean, got " + strconv.Quote(value))
	}
	return boolValue, nil
}
