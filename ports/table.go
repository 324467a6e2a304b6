package ports

import (
	"catalogclean/domain/run"
	"catalogclean/domain/table"
)

// TableLoader reads a file into an in-memory table
type TableLoader interface {
	Load(path string) (*table.Table, error)
}

// TableCleaner applies the normalization passes to a copy of the table
type TableCleaner interface {
	Clean(t *table.Table) (*table.Table, *run.CleanStats, error)
}

// TableExporter writes the cleaned table and its sample. Failures are
// reported on the result rather than returned.
type TableExporter interface {
	Export(t *table.Table, outputPath string) run.ExportResult
}
