package app

import (
	"catalogclean/internal"
	"catalogclean/ports"
)

// LogReporter writes progress events to a leveled logger. Skipped steps
// are logged at debug level.
type LogReporter struct {
	logger *internal.Logger
}

// NewLogReporter creates a reporter over logger
func NewLogReporter(logger *internal.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(event ports.ProgressEvent) {
	if event.Skipped {
		r.logger.Debug("[%s] %s skipped", event.Stage, event.Step)
		return
	}
	r.logger.Info("[%s] %s (%d rows, %d columns)", event.Stage, event.Message, event.Rows, event.Columns)
}

var _ ports.ProgressReporter = (*LogReporter)(nil)
