package excel

// RawData is a sheet or CSV file as read, before type inference
type RawData struct {
	Headers []string   // trimmed column headers
	Rows    [][]string // data rows, padded to the header width
	// DateColumns marks workbook columns whose non-empty cells all carry a
	// date number format. Always nil for CSV input.
	DateColumns []bool
}

// Width returns the number of columns
func (d *RawData) Width() int { return len(d.Headers) }

// Column returns the raw cells of column c in row order
func (d *RawData) Column(c int) []string {
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[c]
	}
	return values
}

// IsDateColumn reports whether column c came from date formatted cells
func (d *RawData) IsDateColumn(c int) bool {
	return c < len(d.DateColumns) && d.DateColumns[c]
}
