package profiling

import (
	"catalogclean/domain/table"
)

// ColumnProfile is the summary of one numeric column
type ColumnProfile struct {
	Column  string           `json:"column"`
	Type    table.ColumnType `json:"type"`
	Missing int              `json:"missing"`
	Summary Summary          `json:"summary"`
	// Empty is set when the column has no values to summarize
	Empty bool `json:"empty"`
}

// TableProfiler profiles every numeric column of a table
type TableProfiler struct {
	analyzer *DistributionAnalyzer
}

// NewTableProfiler creates a new table profiler
func NewTableProfiler() *TableProfiler {
	return &TableProfiler{analyzer: NewDistributionAnalyzer()}
}

// ProfileTable analyzes numeric columns in column order
func (tp *TableProfiler) ProfileTable(t *table.Table) ([]ColumnProfile, error) {
	var profiles []ColumnProfile

	for _, col := range t.Columns() {
		if !col.Type.IsNumeric() {
			continue
		}

		values, missing := NumericValues(t, col.Name)
		profile := ColumnProfile{Column: col.Name, Type: col.Type, Missing: missing}

		if len(values) == 0 {
			profile.Empty = true
			profiles = append(profiles, profile)
			continue
		}

		summary, err := tp.analyzer.AnalyzeDistribution(values)
		if err != nil {
			return nil, err
		}
		profile.Summary = summary
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// NumericValues returns the non-missing numbers of a column and the missing count
func NumericValues(t *table.Table, column string) ([]float64, int) {
	c := t.Index(column)
	if c < 0 {
		return nil, 0
	}

	values := make([]float64, 0, t.Len())
	missing := 0
	for _, row := range t.Rows() {
		v := row[c]
		if v.Kind != table.KindNumber {
			missing++
			continue
		}
		values = append(values, v.Number)
	}
	return values, missing
}
