// Package cleaning implements the fixed sequence of normalization passes
// applied to a loaded catalog table: missing values, text case, dates,
// duration split, deduplication and outlier clipping.
package cleaning

import (
	"catalogclean/adapters/datareadiness/coercer"
	"catalogclean/domain/run"
	"catalogclean/domain/table"
	"catalogclean/internal/errors"
	"catalogclean/ports"
)

// Column names the passes look for or create
const (
	DateColumn          = "date_added"
	YearColumn          = "year_added"
	MonthColumn         = "month_added"
	DurationColumn      = "duration"
	DurationValueColumn = "duration_value"
	DurationUnitColumn  = "duration_unit"
)

// Fill values
const (
	UnknownText         = "Unknown"
	DefaultDurationUnit = "min"
)

// Step names reported in progress events
const (
	StepMissingValues = "missing_values"
	StepText          = "text"
	StepDates         = "dates"
	StepDuration      = "duration"
	StepDuplicates    = "duplicates"
	StepOutliers      = "outliers"
)

// step is one pass over the working copy. It returns skipped=true when its
// column precondition was not met.
type step struct {
	name    string
	message string
	run     func(t *table.Table, stats *run.CleanStats) (skipped bool, err error)
}

// Cleaner applies the passes in a fixed order
type Cleaner struct {
	coercer  *coercer.TypeCoercer
	reporter ports.ProgressReporter
	steps    []step
}

// NewCleaner creates a cleaner; reporter may be nil
func NewCleaner(c *coercer.TypeCoercer, reporter ports.ProgressReporter) *Cleaner {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	if reporter == nil {
		reporter = ports.NopReporter{}
	}

	cl := &Cleaner{coercer: c, reporter: reporter}
	cl.steps = []step{
		{StepMissingValues, "Missing values handled", imputeMissing},
		{StepText, "Text standardized", normalizeText},
		{StepDates, "Dates processed successfully", cl.normalizeDates},
		{StepDuration, "Duration standardized", splitDuration},
		{StepDuplicates, "Duplicates removed", dropDuplicates},
		{StepOutliers, "Outliers handled", clipOutliers},
	}
	return cl
}

// Clean runs every pass on a copy of t. The caller's table is not modified.
func (c *Cleaner) Clean(t *table.Table) (*table.Table, *run.CleanStats, error) {
	work := t.Clone()
	stats := &run.CleanStats{}

	for _, s := range c.steps {
		skipped, err := s.run(work, stats)
		if err != nil {
			return nil, stats, errors.CleanFailed(s.name, err)
		}

		rows, cols := work.Shape()
		c.reporter.Report(ports.ProgressEvent{
			Stage:   ports.StageClean,
			Step:    s.name,
			Message: s.message,
			Rows:    rows,
			Columns: cols,
			Skipped: skipped,
		})
	}

	return work, stats, nil
}

var _ ports.TableCleaner = (*Cleaner)(nil)
