package ports

// Pipeline stages
const (
	StageLoad   = "load"
	StageClean  = "clean"
	StageExport = "export"
)

// ProgressEvent describes a finished unit of pipeline work
type ProgressEvent struct {
	Stage   string
	Step    string
	Message string
	Rows    int
	Columns int
	// Skipped is set when a conditional step found nothing to do
	Skipped bool
}

// ProgressReporter receives progress events; implementations decide presentation
type ProgressReporter interface {
	Report(event ProgressEvent)
}

// ReporterFunc adapts a function to ProgressReporter
type ReporterFunc func(event ProgressEvent)

func (f ReporterFunc) Report(event ProgressEvent) { f(event) }

// NopReporter discards events
type NopReporter struct{}

func (NopReporter) Report(ProgressEvent) {}
