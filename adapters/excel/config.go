package excel

// ExportConfig controls how workbooks are written
type ExportConfig struct {
	SheetName       string  `json:"sheet_name"`
	SampleSheetName string  `json:"sample_sheet_name"`
	SampleRows      int     `json:"sample_rows"`
	DateColumn      string  `json:"date_column"`
	DateColumnWidth float64 `json:"date_column_width"`
	DateFormat      string  `json:"date_format"`
}

// DefaultExportConfig returns the catalog export settings
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SheetName:       "Netflix Data",
		SampleSheetName: "Netflix Sample",
		SampleRows:      100,
		DateColumn:      "date_added",
		DateColumnWidth: 12,
		DateFormat:      "yyyy-mm-dd",
	}
}
