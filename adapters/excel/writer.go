package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalogclean/adapters/datareadiness/coercer"
	"catalogclean/domain/run"
	"catalogclean/domain/table"
	"catalogclean/internal"
	"catalogclean/internal/errors"
	"catalogclean/ports"

	"github.com/xuri/excelize/v2"
)

// Writer exports tables to xlsx workbooks
type Writer struct {
	config   ExportConfig
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
	reporter ports.ProgressReporter
}

// NewWriter creates a workbook writer
func NewWriter(config ExportConfig, c *coercer.TypeCoercer, logger *internal.Logger, reporter ports.ProgressReporter) *Writer {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	if reporter == nil {
		reporter = ports.NopReporter{}
	}
	return &Writer{config: config, coercer: c, logger: logger, reporter: reporter}
}

// SamplePath derives the sample workbook path from the full output path
func SamplePath(outputPath string) string {
	if strings.HasSuffix(outputPath, ".xlsx") {
		return strings.TrimSuffix(outputPath, ".xlsx") + "_sample.xlsx"
	}
	return outputPath + "_sample.xlsx"
}

// Export writes the full table and its first SampleRows rows. Both files
// are attempted; failures are recorded on the result.
func (w *Writer) Export(t *table.Table, outputPath string) run.ExportResult {
	result := run.ExportResult{
		FullPath:   outputPath,
		SamplePath: SamplePath(outputPath),
	}

	if err := w.WriteWorkbook(t, outputPath, w.config.SheetName); err != nil {
		result.FullErr = errors.ExportFailed(outputPath, err)
		w.logger.Error("[Writer] %v", result.FullErr)
	} else {
		w.logger.Info("[Writer] Full data exported to %s", outputPath)
	}

	sample := t.Head(w.config.SampleRows)
	result.SampleRows = sample.Len()
	if err := w.WriteWorkbook(sample, result.SamplePath, w.config.SampleSheetName); err != nil {
		result.SampleErr = errors.ExportFailed(result.SamplePath, err)
		w.logger.Error("[Writer] %v", result.SampleErr)
	} else {
		w.logger.Info("[Writer] Sample data exported to %s", result.SamplePath)
	}

	rows, cols := t.Shape()
	message := "Export complete"
	if !result.OK() {
		message = "Export failed"
	}
	w.reporter.Report(ports.ProgressEvent{
		Stage:   ports.StageExport,
		Step:    "write",
		Message: message,
		Rows:    rows,
		Columns: cols,
	})
	return result
}

// WriteWorkbook writes t to a single-sheet workbook at path. The date
// column, when present, is written as dates with the configured format.
func (w *Writer) WriteWorkbook(t *table.Table, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for c, name := range t.Names() {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	dateCol := t.Index(w.config.DateColumn)
	columns := t.Columns()
	for i, row := range t.Rows() {
		for c, v := range row {
			value, ok := w.cellValue(columns[c].Type, v, c == dateCol)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if dateCol >= 0 {
		if err := w.formatDateColumn(f, sheet, dateCol+1, t.Len()); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// cellValue maps a table value to what excelize should store; ok is false
// for cells that stay empty.
func (w *Writer) cellValue(typ table.ColumnType, v table.Value, isDate bool) (interface{}, bool) {
	switch v.Kind {
	case table.KindMissing:
		return nil, false
	case table.KindDate:
		return v.Date, true
	case table.KindNumber:
		if typ == table.ColumnInteger {
			return int64(v.Number), true
		}
		return v.Number, true
	}

	if isDate {
		if v.Text == "" {
			return nil, false
		}
		if d, ok := w.coercer.ParseDate(v.Text); ok {
			return table.Date(d).Date, true
		}
	}
	return v.Text, true
}

// formatDateColumn applies the date number format to the data cells of
// column col and sets its width. Styles go on after the values so the
// default date-time style excelize assigns is replaced.
func (w *Writer) formatDateColumn(f *excelize.File, sheet string, col, rows int) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, name, name, w.config.DateColumnWidth); err != nil {
		return fmt.Errorf("failed to set date column width: %w", err)
	}
	if rows == 0 {
		return nil
	}

	format := w.config.DateFormat
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("%s2", name), fmt.Sprintf("%s%d", name, rows+1), style)
}

var _ ports.TableExporter = (*Writer)(nil)
