package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"catalogclean/adapters/datareadiness/coercer"
	"catalogclean/domain/core"
	"catalogclean/domain/table"
	"catalogclean/internal"
	"catalogclean/internal/errors"
	"catalogclean/ports"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader loads CSV and Excel files into typed tables
type DataReader struct {
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
	reporter ports.ProgressReporter
}

// NewDataReader creates a reader; a nil coercer uses the default coercion
// config and a nil reporter discards events.
func NewDataReader(c *coercer.TypeCoercer, logger *internal.Logger, reporter ports.ProgressReporter) *DataReader {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	if reporter == nil {
		reporter = ports.NopReporter{}
	}
	return &DataReader{coercer: c, logger: logger, reporter: reporter}
}

// Load reads path and infers one type per column
func (r *DataReader) Load(path string) (*table.Table, error) {
	raw, err := r.ReadData(path)
	if err != nil {
		return nil, err
	}

	t, err := r.buildTable(raw)
	if err != nil {
		return nil, errors.LoadFailed(path, err)
	}

	rows, cols := t.Shape()
	r.logger.Info("[DataReader] Data loaded successfully with %d rows and %d columns", rows, cols)
	r.reporter.Report(ports.ProgressEvent{
		Stage:   ports.StageLoad,
		Step:    "read",
		Message: "Data loaded successfully",
		Rows:    rows,
		Columns: cols,
	})
	return t, nil
}

// ReadData reads the raw cells of a CSV or Excel file
func (r *DataReader) ReadData(path string) (*RawData, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(path)
		}
		return nil, errors.LoadFailed(path, err)
	}

	var (
		rows     [][]string
		dateCols []bool
		err      error
	)
	start := time.Now()
	if isWorkbook(path) {
		rows, dateCols, err = readExcelRows(path)
	} else {
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, errors.LoadFailed(path, err)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d records)", filepath.Base(path),
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	raw, err := processRows(rows)
	if err != nil {
		return nil, errors.LoadFailed(path, err)
	}
	if dateCols != nil {
		raw.DateColumns = make([]bool, raw.Width())
		copy(raw.DateColumns, dateCols)
	}
	return raw, nil
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// readCSVRows reads every record; a leading byte order mark is dropped
func readCSVRows(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("CSV file is not valid UTF-8")
	}
	content = bytes.TrimPrefix(content, []byte(utf8BOM))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// readExcelRows reads the first sheet of a workbook. Cells with a date
// number format are rendered as ISO dates from their serial value, and a
// column counts as a date column when every non-empty data cell is one.
func readExcelRows(path string) ([][]string, []bool, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, core.ErrEmptyInput
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	styles := map[int]bool{}
	var filled, dated []int
	for r := 1; r < len(rows); r++ {
		for c, text := range rows[r] {
			if text == "" {
				continue
			}
			for len(filled) <= c {
				filled = append(filled, 0)
				dated = append(dated, 0)
			}
			filled[c]++

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, nil, err
			}
			if !isDateCell(f, sheet, cell, styles) {
				continue
			}
			rawValue, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
			if err != nil {
				return nil, nil, fmt.Errorf("failed to read cell %s: %w", cell, err)
			}
			serial, err := strconv.ParseFloat(rawValue, 64)
			if err != nil {
				continue
			}
			d, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			rows[r][c] = formatCellDate(d)
			dated[c]++
		}
	}

	dateCols := make([]bool, len(filled))
	for c := range filled {
		dateCols[c] = filled[c] > 0 && dated[c] == filled[c]
	}
	return rows, dateCols, nil
}

// isDateCell reports whether the style of cell is a date number format.
// Results are cached per style index.
func isDateCell(f *excelize.File, sheet, cell string, cache map[int]bool) bool {
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if isDate, ok := cache[idx]; ok {
		return isDate
	}

	isDate := false
	if style, err := f.GetStyle(idx); err == nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	cache[idx] = isDate
	return isDate
}

// isDateNumFmt recognizes the built-in date formats (14-17, 22) and custom
// formats with a year or day token outside quoted literals.
func isDateNumFmt(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		inQuote := false
		for _, r := range strings.ToLower(*custom) {
			switch {
			case r == '"':
				inQuote = !inQuote
			case !inQuote && (r == 'y' || r == 'd'):
				return true
			}
		}
		return false
	}
	return (numFmt >= 14 && numFmt <= 17) || numFmt == 22
}

func formatCellDate(d time.Time) string {
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 {
		return d.Format(table.DateLayout)
	}
	return d.Format("2006-01-02T15:04:05")
}

// processRows trims the header, names blank or repeated headers and pads
// short rows. Empty rows are skipped; a row wider than the header is rejected.
func processRows(rows [][]string) (*RawData, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyInput
	}

	headers := uniqueHeaders(rows[0])
	width := len(headers)

	data := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if len(row) > width {
			return nil, core.NewRaggedRowError(i+2, len(row), width)
		}
		padded := make([]string, width)
		copy(padded, row)
		data = append(data, padded)
	}

	return &RawData{Headers: headers, Rows: data}, nil
}

// uniqueHeaders trims header cells, names blank ones "Unnamed: <i>" and
// suffixes repeats with ".1", ".2", ...
func uniqueHeaders(cells []string) []string {
	headers := make([]string, len(cells))
	taken := make(map[string]bool, len(cells))

	for i, cell := range cells {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		candidate := name
		for n := 1; taken[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		taken[candidate] = true
		headers[i] = candidate
	}
	return headers
}

// buildTable infers column types from the raw cells and coerces them
func (r *DataReader) buildTable(raw *RawData) (*table.Table, error) {
	columns := make([]table.Column, raw.Width())
	values := make([][]table.Value, raw.Width())

	for c, name := range raw.Headers {
		cells := raw.Column(c)
		typ := r.coercer.InferColumnType(cells)
		if raw.IsDateColumn(c) && r.coercer.AllDates(cells) {
			typ = table.ColumnDate
		}
		columns[c] = table.Column{Name: name, Type: typ}
		values[c] = r.coercer.CoerceColumn(cells, typ)
		r.logger.Trace("[DataReader] column %q inferred as %s", name, typ)
	}

	t, err := table.New(columns)
	if err != nil {
		return nil, err
	}
	for i := range raw.Rows {
		row := make(table.Row, len(columns))
		for c := range columns {
			row[c] = values[c][i]
		}
		if err := t.Append(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

var _ ports.TableLoader = (*DataReader)(nil)
