package app

import (
	"context"
	"fmt"

	"catalogclean/domain/run"
	"catalogclean/internal"
	"catalogclean/internal/errors"
	"catalogclean/ports"
)

// PipelineRequest names the files of one run
type PipelineRequest struct {
	InputPath  string
	OutputPath string
}

// Validate checks that both paths are set
func (r PipelineRequest) Validate() error {
	if r.InputPath == "" {
		return errors.InvalidInput("input path is required")
	}
	if r.OutputPath == "" {
		return errors.InvalidInput("output path is required")
	}
	return nil
}

// PipelineService runs load, clean and export once and records the outcome
type PipelineService struct {
	loader   ports.TableLoader
	cleaner  ports.TableCleaner
	exporter ports.TableExporter
	runs     ports.RunRepository
	logger   *internal.Logger
}

// NewPipelineService creates the service. runs may be nil, in which case
// summaries are not persisted.
func NewPipelineService(
	loader ports.TableLoader,
	cleaner ports.TableCleaner,
	exporter ports.TableExporter,
	runs ports.RunRepository,
	logger *internal.Logger,
) *PipelineService {
	return &PipelineService{
		loader:   loader,
		cleaner:  cleaner,
		exporter: exporter,
		runs:     runs,
		logger:   logger,
	}
}

// Run executes the pipeline. The returned error is set only when loading or
// cleaning failed; export failures are carried on the summary.
func (s *PipelineService) Run(ctx context.Context, req PipelineRequest) (*run.Summary, error) {
	summary := run.NewSummary(req.InputPath, req.OutputPath)
	s.logger.Debug("[Pipeline] run %s started: %s -> %s", summary.RunID, req.InputPath, req.OutputPath)

	if err := req.Validate(); err != nil {
		return s.abort(ctx, summary, err)
	}

	loaded, err := s.loader.Load(req.InputPath)
	if err != nil {
		return s.abort(ctx, summary, err)
	}
	summary.RowsLoaded, summary.ColumnsLoaded = loaded.Shape()

	cleaned, stats, err := s.cleaner.Clean(loaded)
	if err != nil {
		return s.abort(ctx, summary, err)
	}
	summary.ApplyClean(stats)
	summary.RowsCleaned, summary.ColumnsCleaned = cleaned.Shape()
	s.logger.Info("[Pipeline] cleaned %d rows and %d columns (%d duplicates removed, %d values imputed, %d values clipped)",
		summary.RowsCleaned, summary.ColumnsCleaned, summary.DuplicatesRemoved, summary.ValuesImputed, summary.ValuesClipped)

	summary.Complete(s.exporter.Export(cleaned, req.OutputPath))
	if summary.Status == run.StatusExportFailed {
		s.logger.Warn("[Pipeline] run %s finished with export errors: %s", summary.RunID, summary.ErrorMessage)
	} else {
		s.logger.Info("[Pipeline] run %s finished in %s", summary.RunID, summary.Duration())
	}

	s.record(ctx, summary)
	return summary, nil
}

func (s *PipelineService) abort(ctx context.Context, summary *run.Summary, err error) (*run.Summary, error) {
	summary.Fail(err)
	s.logger.Error("[Pipeline] %v", err)
	s.record(ctx, summary)
	return summary, err
}

// record stores the summary; a ledger failure never fails the run
func (s *PipelineService) record(ctx context.Context, summary *run.Summary) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Record(ctx, summary); err != nil {
		s.logger.Warn("[Pipeline] %v", errors.Wrap(err, fmt.Sprintf("run %s not recorded", summary.RunID)))
	}
}
