package run

import (
	"errors"
	"time"

	"catalogclean/domain/core"
)

// Status is the outcome of a pipeline run
type Status string

const (
	StatusRunning      Status = "running"
	StatusSucceeded    Status = "succeeded"
	StatusExportFailed Status = "export_failed" // cleaned, but at least one workbook was not written
	StatusFailed       Status = "failed"        // aborted during load or clean
)

// ClipBounds records the IQR fence applied to one numeric column
type ClipBounds struct {
	Column  string  `json:"column"`
	Q1      float64 `json:"q1"`
	Q3      float64 `json:"q3"`
	IQR     float64 `json:"iqr"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Clipped int     `json:"clipped"`
}

// CleanStats summarizes what the cleaning passes changed
type CleanStats struct {
	ValuesImputed     int          `json:"values_imputed"`
	InvalidDates      int          `json:"invalid_dates"`
	DuplicatesRemoved int          `json:"duplicates_removed"`
	ValuesClipped     int          `json:"values_clipped"`
	Bounds            []ClipBounds `json:"bounds"`
}

// ExportResult reports each workbook independently; one failing does not
// prevent the other from being attempted.
type ExportResult struct {
	FullPath   string `json:"full_path"`
	SamplePath string `json:"sample_path"`
	SampleRows int    `json:"sample_rows"`
	FullErr    error  `json:"-"`
	SampleErr  error  `json:"-"`
}

// Err joins the per-file errors, nil when both files were written
func (r ExportResult) Err() error {
	return errors.Join(r.FullErr, r.SampleErr)
}

// OK reports whether both workbooks were written
func (r ExportResult) OK() bool {
	return r.FullErr == nil && r.SampleErr == nil
}

// Summary is the record of one pipeline execution
type Summary struct {
	RunID             core.RunID `json:"run_id" db:"run_id"`
	InputPath         string     `json:"input_path" db:"input_path"`
	OutputPath        string     `json:"output_path" db:"output_path"`
	SamplePath        string     `json:"sample_path" db:"sample_path"`
	RowsLoaded        int        `json:"rows_loaded" db:"rows_loaded"`
	ColumnsLoaded     int        `json:"columns_loaded" db:"columns_loaded"`
	RowsCleaned       int        `json:"rows_cleaned" db:"rows_cleaned"`
	ColumnsCleaned    int        `json:"columns_cleaned" db:"columns_cleaned"`
	DuplicatesRemoved int        `json:"duplicates_removed" db:"duplicates_removed"`
	ValuesImputed     int        `json:"values_imputed" db:"values_imputed"`
	ValuesClipped     int        `json:"values_clipped" db:"values_clipped"`
	Status            Status     `json:"status" db:"status"`
	ErrorMessage      string     `json:"error_message" db:"error_message"`
	StartedAt         time.Time  `json:"started_at" db:"started_at"`
	CompletedAt       time.Time  `json:"completed_at" db:"completed_at"`

	Clean  *CleanStats  `json:"clean,omitempty" db:"-"`
	Export ExportResult `json:"export" db:"-"`
}

// NewSummary starts a run record for the given paths
func NewSummary(inputPath, outputPath string) *Summary {
	return &Summary{
		RunID:      core.NewRunID(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Status:     StatusRunning,
		StartedAt:  time.Now().UTC(),
	}
}

// ApplyClean copies the cleaning statistics onto the summary
func (s *Summary) ApplyClean(stats *CleanStats) {
	if stats == nil {
		return
	}
	s.Clean = stats
	s.DuplicatesRemoved = stats.DuplicatesRemoved
	s.ValuesImputed = stats.ValuesImputed
	s.ValuesClipped = stats.ValuesClipped
}

// Fail marks the run as aborted
func (s *Summary) Fail(err error) {
	s.Status = StatusFailed
	if err != nil {
		s.ErrorMessage = err.Error()
	}
	s.CompletedAt = time.Now().UTC()
}

// Complete settles the status from the export outcome
func (s *Summary) Complete(export ExportResult) {
	s.Export = export
	s.SamplePath = export.SamplePath
	if export.OK() {
		s.Status = StatusSucceeded
	} else {
		s.Status = StatusExportFailed
		s.ErrorMessage = export.Err().Error()
	}
	s.CompletedAt = time.Now().UTC()
}

// Duration returns the wall time of a finished run
func (s *Summary) Duration() time.Duration {
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
