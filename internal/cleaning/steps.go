package cleaning

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"catalogclean/domain/core"
	"catalogclean/domain/run"
	"catalogclean/domain/table"
	"catalogclean/internal/profiling"

	"github.com/montanaflynn/stats"
)

var (
	digitRun    = regexp.MustCompile(`[0-9]+`)
	nonDigitRun = regexp.MustCompile(`[^0-9]+`)
)

// imputeMissing fills text holes with "Unknown" and numeric holes with the
// column median. The median is taken before any fill in that column.
func imputeMissing(t *table.Table, cs *run.CleanStats) (bool, error) {
	for _, col := range t.Columns() {
		c := t.Index(col.Name)

		switch {
		case col.Type == table.ColumnText:
			for _, row := range t.Rows() {
				if row[c].IsMissing() {
					row[c] = table.Text(UnknownText)
					cs.ValuesImputed++
				}
			}

		case col.Type.IsNumeric():
			values, missing := profiling.NumericValues(t, col.Name)
			if missing == 0 || len(values) == 0 {
				continue
			}
			median, err := stats.Median(values)
			if err != nil {
				return false, err
			}
			for _, row := range t.Rows() {
				if row[c].IsMissing() {
					row[c] = table.Number(median)
					cs.ValuesImputed++
				}
			}
			if col.Type == table.ColumnInteger && !isWhole(median) {
				if err := t.SetType(col.Name, table.ColumnFloat); err != nil {
					return false, err
				}
			}
		}
	}
	return false, nil
}

// normalizeText trims and lowercases every text cell
func normalizeText(t *table.Table, _ *run.CleanStats) (bool, error) {
	for _, col := range t.Columns() {
		if col.Type != table.ColumnText {
			continue
		}
		c := t.Index(col.Name)
		for _, row := range t.Rows() {
			if row[c].Kind == table.KindText {
				row[c] = table.Text(strings.ToLower(strings.TrimSpace(row[c].Text)))
			}
		}
	}
	return false, nil
}

// normalizeDates rewrites date_added as YYYY-MM-DD text ("" when invalid)
// and derives year_added and month_added.
func (c *Cleaner) normalizeDates(t *table.Table, cs *run.CleanStats) (bool, error) {
	if !t.Has(DateColumn) {
		return true, nil
	}
	idx := t.Index(DateColumn)

	years := make([]table.Value, t.Len())
	months := make([]table.Value, t.Len())

	for i, row := range t.Rows() {
		v := row[idx]

		var parsed table.Value
		if v.Kind == table.KindDate {
			parsed = v
		} else if d, ok := c.coercer.ParseDate(v.String()); ok {
			parsed = table.Date(d)
		}

		if parsed.IsMissing() {
			row[idx] = table.Text("")
			years[i] = table.Missing()
			months[i] = table.Missing()
			cs.InvalidDates++
			continue
		}

		row[idx] = table.Text(parsed.Date.Format(table.DateLayout))
		years[i] = table.Number(float64(parsed.Date.Year()))
		months[i] = table.Number(float64(parsed.Date.Month()))
	}

	if err := t.SetType(DateColumn, table.ColumnText); err != nil {
		return false, err
	}
	if err := setColumn(t, table.Column{Name: YearColumn, Type: table.ColumnInteger}, years); err != nil {
		return false, err
	}
	if err := setColumn(t, table.Column{Name: MonthColumn, Type: table.ColumnInteger}, months); err != nil {
		return false, err
	}
	return false, nil
}

// splitDuration replaces "duration" with duration_value (leading digits)
// and duration_unit (first non-digit run, "min" when there is none).
func splitDuration(t *table.Table, _ *run.CleanStats) (bool, error) {
	col, ok := t.Column(DurationColumn)
	if !ok {
		return true, nil
	}
	if col.Type != table.ColumnText {
		return false, core.NewColumnNotTextError(DurationColumn, string(col.Type))
	}
	idx := t.Index(DurationColumn)

	values := make([]table.Value, t.Len())
	units := make([]table.Value, t.Len())
	for i, row := range t.Rows() {
		values[i], units[i] = ParseDuration(row[idx])
	}

	if err := setColumn(t, table.Column{Name: DurationValueColumn, Type: table.ColumnFloat}, values); err != nil {
		return false, err
	}
	if err := setColumn(t, table.Column{Name: DurationUnitColumn, Type: table.ColumnText}, units); err != nil {
		return false, err
	}
	return false, t.DropColumn(DurationColumn)
}

// ParseDuration splits a duration cell such as "90 min" or "3 seasons".
// The unit is the first non-digit run as found, so "90 min" gives " min".
func ParseDuration(v table.Value) (value table.Value, unit table.Value) {
	if v.Kind != table.KindText {
		return table.Missing(), table.Text(DefaultDurationUnit)
	}

	value = table.Missing()
	if digits := digitRun.FindString(v.Text); digits != "" {
		if f, err := strconv.ParseFloat(digits, 64); err == nil {
			value = table.Number(f)
		}
	}

	u := nonDigitRun.FindString(v.Text)
	if u == "" {
		u = DefaultDurationUnit
	}
	return value, table.Text(u)
}

// dropDuplicates keeps the first occurrence of each identical row
func dropDuplicates(t *table.Table, cs *run.CleanStats) (bool, error) {
	seen := make(map[string]struct{}, t.Len())
	keys := make([]string, t.Len())
	for i := range keys {
		keys[i] = t.RowKey(i)
	}

	cs.DuplicatesRemoved += t.Retain(func(i int, _ table.Row) bool {
		if _, dup := seen[keys[i]]; dup {
			return false
		}
		seen[keys[i]] = struct{}{}
		return true
	})
	return false, nil
}

// clipOutliers limits every numeric column to its Tukey fence
func clipOutliers(t *table.Table, cs *run.CleanStats) (bool, error) {
	for _, col := range t.Columns() {
		if !col.Type.IsNumeric() {
			continue
		}

		values, _ := profiling.NumericValues(t, col.Name)
		if len(values) == 0 {
			continue
		}
		bounds, err := profiling.IQRBounds(values)
		if err != nil {
			return false, err
		}

		c := t.Index(col.Name)
		clipped := 0
		fractional := false
		for _, row := range t.Rows() {
			v := row[c]
			if v.Kind != table.KindNumber || bounds.Contains(v.Number) {
				continue
			}
			nv := bounds.Clip(v.Number)
			row[c] = table.Number(nv)
			clipped++
			if !isWhole(nv) {
				fractional = true
			}
		}

		if col.Type == table.ColumnInteger && fractional {
			if err := t.SetType(col.Name, table.ColumnFloat); err != nil {
				return false, err
			}
		}

		cs.ValuesClipped += clipped
		cs.Bounds = append(cs.Bounds, run.ClipBounds{
			Column:  col.Name,
			Q1:      bounds.Q1,
			Q3:      bounds.Q3,
			IQR:     bounds.IQR,
			Lower:   bounds.Lower,
			Upper:   bounds.Upper,
			Clipped: clipped,
		})
	}
	return false, nil
}

// setColumn overwrites an existing column in place or appends a new one
func setColumn(t *table.Table, col table.Column, values []table.Value) error {
	if !t.Has(col.Name) {
		return t.AddColumn(col, values)
	}
	if err := t.SetType(col.Name, col.Type); err != nil {
		return err
	}
	for i, v := range values {
		if err := t.Set(i, col.Name, v); err != nil {
			return err
		}
	}
	return nil
}

func isWhole(f float64) bool {
	return f == math.Trunc(f)
}
